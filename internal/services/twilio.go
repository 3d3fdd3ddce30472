package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioService struct {
	client *twilio.RestClient
	from   string // Your Twilio WhatsApp number
}

var (
	twilioInstance *TwilioService
	twilioMu       sync.RWMutex
)

// SetTwilioService sets the global Twilio service instance (call from main.go)
func SetTwilioService(t *TwilioService) {
	twilioMu.Lock()
	defer twilioMu.Unlock()
	twilioInstance = t
}

// GetTwilioService returns the global Twilio service instance
func GetTwilioService() *TwilioService {
	twilioMu.RLock()
	defer twilioMu.RUnlock()
	return twilioInstance
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService() (*TwilioService, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_FROM") // Format: "whatsapp:+14155238886"

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioService{
		client: client,
		from:   from,
	}, nil
}

// SendWhatsAppMessage sends a plain text WhatsApp message via Twilio
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send WhatsApp message: %v", err)
		return err
	}

	log.Printf("WhatsApp message sent, SID: %s", *resp.Sid)
	return nil
}

// SendWhatsAppImage sends an image by media URL
func (t *TwilioService) SendWhatsAppImage(to string, imageURL string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetMediaUrl([]string{imageURL})

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send WhatsApp image: %v", err)
		return err
	}

	log.Printf("WhatsApp image sent, SID: %s", *resp.Sid)
	return nil
}

// TemplateConfig holds template configuration
type TemplateConfig struct {
	SID         string
	Description string
	Parameters  []string
}

// WhatsAppTemplates maps template names to their Twilio Content SIDs
var WhatsAppTemplates = map[string]TemplateConfig{
	"moviechoice": {
		SID:         "HX2f61cf0bcf24933ab7a8c9d1e0f41a27",
		Description: "Interactive movie selection card",
		Parameters:  []string{},
	},
	"payment_link": {
		SID:         "HX9a40d1c27be8f1c30e74425f6accba58",
		Description: "Payment link for the selected option",
		Parameters:  []string{"payment_option"},
	},
}

// SendWhatsAppTemplate sends a WhatsApp template message via Twilio
func (t *TwilioService) SendWhatsAppTemplate(to string, templateName string, parameters []string) error {
	config, ok := WhatsAppTemplates[templateName]
	if !ok {
		return fmt.Errorf("unknown template: %s", templateName)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetContentSid(config.SID)

	// SetContentVariables expects a JSON string keyed by positional index
	if len(parameters) > 0 {
		variables := make(map[string]string, len(parameters))
		for i, p := range parameters {
			variables[fmt.Sprintf("%d", i+1)] = p
		}
		variablesJSON, err := json.Marshal(variables)
		if err != nil {
			log.Printf("Failed to marshal content variables: %v", err)
			return err
		}
		params.SetContentVariables(string(variablesJSON))
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send WhatsApp template: %v", err)
		return err
	}

	log.Printf("WhatsApp template sent, SID: %s, Template: %s", *resp.Sid, templateName)
	return nil
}
