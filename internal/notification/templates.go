package notification

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"realty_leads_backend/internal/leads/transport"
)

//go:embed templates/*.txt
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

// templateData is the field set available to every notification template.
type templateData struct {
	FullName        string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Message         string
	ListingRef      string
	PropertyRef     string
	EventRef        string
	InquiryType     string
	Budget          string
	Timeline        string
	PreferredMethod string
	SourceURL       string
	Source          string
	LeadID          string
}

func buildTemplateData(lead transport.Lead) templateData {
	return templateData{
		FullName:        lead.FullName(),
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Message:         lead.Message,
		ListingRef:      lead.ListingRef,
		PropertyRef:     lead.PropertyRef,
		EventRef:        lead.EventRef,
		InquiryType:     lead.InquiryType,
		Budget:          lead.Budget,
		Timeline:        lead.Timeline,
		PreferredMethod: lead.PreferredMethod,
		SourceURL:       lead.SourceURL,
		Source:          lead.Source,
		LeadID:          lead.ID.String(),
	}
}

// renderBody renders the notification body for the given template key.
func renderBody(templateKey string, lead transport.Lead) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateKey+".txt", buildTemplateData(lead)); err != nil {
		return "", fmt.Errorf("render template %q: %w", templateKey, err)
	}
	return buf.String(), nil
}

// renderConfirmation renders the submitter confirmation body, shared by
// all lead types.
func renderConfirmation(lead transport.Lead) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "confirmation.txt", buildTemplateData(lead)); err != nil {
		return "", fmt.Errorf("render confirmation template: %w", err)
	}
	return buf.String(), nil
}
