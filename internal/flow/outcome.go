package flow

// Outcome classifies what a turn did to the session. The dispatcher must not
// advance the conversation on Reject or Revert even though messages were
// emitted.
type Outcome int

const (
	// OutcomeAdvance means a slot was committed and the step moved forward.
	OutcomeAdvance Outcome = iota
	// OutcomeReject means a candidate was found but failed validation; the
	// step is unchanged and a reason-specific reprompt was emitted.
	OutcomeReject
	// OutcomeRevert means nothing parseable was found at all; the utterance
	// is discarded and the disambiguation block re-issues the prompt.
	OutcomeRevert
)

// Reason tags why a turn was rejected.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNotANumber          Reason = "not_a_number"
	ReasonOutOfRange          Reason = "out_of_range"
	ReasonCountMismatch       Reason = "count_mismatch"
	ReasonUnknownLocation     Reason = "unknown_location"
	ReasonUnknownChoice       Reason = "unknown_choice"
	ReasonMissingPrerequisite Reason = "missing_prerequisite"
	ReasonAdapterFailure      Reason = "adapter_failure"
)

// MessageKind distinguishes the outgoing message item types.
type MessageKind int

const (
	MessageText MessageKind = iota
	MessageImage
	MessageTemplate
)

// TemplateRef describes a structured template message; the delivery channel
// decides how to render it.
type TemplateRef struct {
	Name       string   `json:"name"`
	Language   string   `json:"language"`
	Parameters []string `json:"parameters"`
}

// Message is a single outgoing item. A handler emits an ordered list of
// these; order is significant.
type Message struct {
	Kind     MessageKind  `json:"kind"`
	Text     string       `json:"text,omitempty"`
	ImageURL string       `json:"image_url,omitempty"`
	Template *TemplateRef `json:"template,omitempty"`
}

// Text builds a plain text message item.
func Text(s string) Message { return Message{Kind: MessageText, Text: s} }

// Image builds an image reference message item.
func Image(url string) Message { return Message{Kind: MessageImage, ImageURL: url} }

// Template builds a structured template message item.
func Template(name, language string, params ...string) Message {
	return Message{Kind: MessageTemplate, Template: &TemplateRef{Name: name, Language: language, Parameters: params}}
}

// Turn is the atomic result of processing one utterance.
type Turn struct {
	Outcome  Outcome
	Reason   Reason
	Messages []Message
}

func advance(msgs ...Message) Turn {
	return Turn{Outcome: OutcomeAdvance, Messages: msgs}
}

func reject(reason Reason, msgs ...Message) Turn {
	return Turn{Outcome: OutcomeReject, Reason: reason, Messages: msgs}
}

// revert emits the multi-message disambiguation block followed by any
// step-specific help messages.
func revert(help ...Message) Turn {
	msgs := []Message{
		Text("Sorry, I didn't understand that."),
		Text("It seems like your message got cut off."),
		Text("Could you please provide more details or clarify what you meant?"),
	}
	msgs = append(msgs, help...)
	msgs = append(msgs, Text("I'm here to help with any inquiries about our Athena bot service!"))
	return Turn{Outcome: OutcomeRevert, Messages: msgs}
}
