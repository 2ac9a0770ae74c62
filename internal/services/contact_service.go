package services

import (
	"fmt"
	"log"
	"time"

	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/pkg/mailer"

	"github.com/google/uuid"
)

// ContactService handles business logic for the contact form.
type ContactService struct {
	contactRepo repositories.ContactRepository
	userRepo    repositories.UserRepository
	mailPool    *mailer.Pool
	adminEmail  string
}

// NewContactService creates a new ContactService. mailPool may be nil when
// SMTP is not configured; submissions are still persisted.
func NewContactService(contactRepo repositories.ContactRepository, userRepo repositories.UserRepository, mailPool *mailer.Pool, adminEmail string) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		userRepo:    userRepo,
		mailPool:    mailPool,
		adminEmail:  adminEmail,
	}
}

// SubmitMessage persists a contact form submission and then sends the admin
// notification and the sender auto-reply concurrently, waiting for both.
// Delivery failures are recorded on the message, never surfaced as a request
// error: the submission itself already succeeded.
func (s *ContactService) SubmitMessage(message *models.ContactMessage, id Identity) (*models.ContactMessage, error) {
	if id.IsAuthenticated() {
		user, err := s.userRepo.GetByID(id.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sender: %w", err)
		}
		message.UserID = &user.ID
		message.User = user
		message.Name = ""
		message.Email = ""
	}

	message.ID = uuid.New().String()
	message.Status = models.ContactStatusPending
	if err := s.contactRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	s.deliver(message)
	return message, nil
}

func (s *ContactService) deliver(message *models.ContactMessage) {
	notification := mailer.Email{
		To:      s.adminEmail,
		Subject: fmt.Sprintf("Contact form: %s", message.Subject),
		Body: fmt.Sprintf("From: %s <%s>\n\n%s",
			message.SenderName(), message.SenderEmail(), message.Message),
	}
	autoReply := mailer.Email{
		To:      message.SenderEmail(),
		Subject: "We received your message",
		Body: fmt.Sprintf("Hi %s,\n\nThanks for reaching out. We received your message %q and will get back to you soon.",
			message.SenderName(), message.Subject),
	}

	errs := s.mailPool.SendAll(notification, autoReply)

	if errs[0] != nil {
		log.Printf("Warning: failed to notify admin about contact message %s: %v", message.ID, errs[0])
		message.Status = models.ContactStatusFailed
	} else {
		message.Status = models.ContactStatusSent
	}

	if errs[1] != nil {
		log.Printf("Warning: failed to send auto-reply for contact message %s: %v", message.ID, errs[1])
	} else {
		now := time.Now()
		message.AutoReplySent = true
		message.AutoReplyDate = &now
	}

	if err := s.contactRepo.Save(message); err != nil {
		log.Printf("Warning: failed to update delivery state of contact message %s: %v", message.ID, err)
	}
}
