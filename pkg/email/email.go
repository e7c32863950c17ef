// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type InquiryNotificationData struct {
	PropertyTitle string
	InquiryName   string
	InquiryEmail  string
	InquiryPhone  string
	InquiryText   string
}

type SubscriptionEmailData struct {
	Name      string
	PlanName  string
	Period    string
	Amount    float64
	EndDate   time.Time
	IsRenewal bool
}

type SubscriptionCancelledData struct {
	Name     string
	PlanName string
	EndDate  time.Time
}

type SubscriptionExpiryWarningData struct {
	Name       string
	PlanName   string
	DaysLeft   int
	ExpiryDate time.Time
}

type PasswordResetData struct {
	ResetLink string
}

type PasswordChangedData struct {
	Email string
}

type OccupancyDigestData struct {
	Name            string
	Period          string
	TotalProperties int64
	TotalBeds       int64
	OccupiedBeds    int64
	TotalViews      int64
	InquiryCount    int64
	StartDate       time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "RoomStay <noreply@roomstay.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Sent %q email to %s", subject, to)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to RoomStay! 🎉", "welcome.html", data)
}

func (s *EmailService) SendInquiryNotificationEmail(
	landlordEmail, propertyTitle, name, inquiryEmail, phone, message string,
) error {
	data := InquiryNotificationData{
		PropertyTitle: propertyTitle,
		InquiryName:   name,
		InquiryEmail:  inquiryEmail,
		InquiryPhone:  phone,
		InquiryText:   message,
	}
	return s.sendTemplateEmail(landlordEmail, "New Inquiry for Your Property! 📋", "inquiry_notification.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email string,
	name string,
	planName string,
	period string,
	amount float64,
	endDate time.Time,
	isRenewal bool,
) error {
	data := SubscriptionEmailData{
		Name:      name,
		PlanName:  planName,
		Period:    period,
		Amount:    amount,
		EndDate:   endDate,
		IsRenewal: isRenewal,
	}

	subject := "Welcome to Your RoomStay Plan! 🎉"
	if isRenewal {
		subject = "Your RoomStay Subscription Has Been Renewed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, name, planName string, endDate time.Time) error {
	data := SubscriptionCancelledData{
		Name:     name,
		PlanName: planName,
		EndDate:  endDate,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(
	email, name, planName string,
	expiryDate time.Time,
	daysLeft int,
) error {
	data := SubscriptionExpiryWarningData{
		Name:       name,
		PlanName:   planName,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}
	return s.sendTemplateEmail(
		email,
		fmt.Sprintf("Your Subscription Expires in %d Days ⚠️", daysLeft),
		"subscription_expiry_warning.html",
		data,
	)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken string) error {
	data := PasswordResetData{
		ResetLink: fmt.Sprintf("https://roomstay.app/reset-password?token=%s", resetToken),
	}
	return s.sendTemplateEmail(email, "Reset Your Password 🔒", "password_reset.html", data)
}

func (s *EmailService) SendPasswordChangedEmail(email string) error {
	data := PasswordChangedData{
		Email: email,
	}
	return s.sendTemplateEmail(email, "Your Password Has Been Changed 🔐", "password_changed.html", data)
}

func (s *EmailService) SendOccupancyDigest(
	email, name, period string,
	totalProperties, totalBeds, occupiedBeds, totalViews, inquiryCount int64,
	startDate time.Time,
) error {
	data := OccupancyDigestData{
		Name:            name,
		Period:          period,
		TotalProperties: totalProperties,
		TotalBeds:       totalBeds,
		OccupiedBeds:    occupiedBeds,
		TotalViews:      totalViews,
		InquiryCount:    inquiryCount,
		StartDate:       startDate,
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("Your %s Occupancy Report 📊", period), "occupancy_digest.html", data)
}
