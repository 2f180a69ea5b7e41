package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"github.com/almira/almira-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrSellerNotFound         = errors.New("seller not found")
	ErrSellerProfileMissing   = errors.New("seller profile missing for credential")
	ErrSellerNotApproved      = errors.New("seller is not approved")
	ErrSellerAlreadyReviewed  = errors.New("seller has already been reviewed")
	ErrUsernameInvalid        = errors.New("username contains invalid characters")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrDocumentMissing        = errors.New("verification document is required")
	ErrDocumentTooLarge       = errors.New("verification document exceeds the size limit")
	ErrRegistrationIncomplete = errors.New("missing required registration fields")
)

// ObjectStore uploads bytes and returns a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error)
}

// EmailSender delivers transactional email. Callers treat failures as
// best-effort.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// SellerRegistration is the input to Register. Username is optional
// and derived from the contact email when empty.
type SellerRegistration struct {
	LegalName     string
	ContactEmail  string
	Phone         string
	StoreName     string
	StoreCategory string
	Username      string
	Password      string
	DocumentName  string
	DocumentType  string
	Document      []byte
}

// SellerService drives the merchant lifecycle: registration into
// pending, a single admin review to approved or rejected, and login
// that fails closed for anything not approved.
type SellerService interface {
	Register(ctx context.Context, input SellerRegistration) (*model.Seller, error)
	Login(login, password string) (*model.User, *model.Seller, *util.TokenPair, error)
	Approve(sellerID uint, reviewer string) (*model.Seller, error)
	Reject(sellerID uint, reason, reviewer string) (*model.Seller, error)
	GetByID(id uint) (*model.Seller, error)
	GetByUserID(userID uint) (*model.Seller, error)
	List(status model.ApprovalStatus, offset, limit int) ([]model.Seller, int64, error)
}

type sellerService struct {
	sellerRepo      repository.SellerRepository
	userRepo        repository.UserRepository
	notifier        NotificationService
	store           ObjectStore
	mailer          EmailSender
	jwtSecret       string
	accessExpiry    time.Duration
	refreshExpiry   time.Duration
	loginDomain     string
	maxDocumentSize int64
	registerTimeout time.Duration
}

func NewSellerService(
	sellerRepo repository.SellerRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	store ObjectStore,
	mailer EmailSender,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
	loginDomain string,
	maxDocumentSize int64,
	registerTimeout time.Duration,
) SellerService {
	return &sellerService{
		sellerRepo:      sellerRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		store:           store,
		mailer:          mailer,
		jwtSecret:       jwtSecret,
		accessExpiry:    accessExpiry,
		refreshExpiry:   refreshExpiry,
		loginDomain:     loginDomain,
		maxDocumentSize: maxDocumentSize,
		registerTimeout: registerTimeout,
	}
}

// Register validates the application, uploads the verification
// document and creates the credential plus the pending profile. All
// validation happens before any write so a rejected application leaves
// nothing behind. Registration does not sign the seller in.
func (s *sellerService) Register(ctx context.Context, input SellerRegistration) (*model.Seller, error) {
	if s.registerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.registerTimeout)
		defer cancel()
	}

	logger.Info("Attempting seller registration", map[string]interface{}{
		"store_name":    input.StoreName,
		"contact_email": input.ContactEmail,
	})

	if input.LegalName == "" || input.ContactEmail == "" || input.StoreName == "" || input.Password == "" {
		return nil, ErrRegistrationIncomplete
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		username = util.DeriveUsername(input.ContactEmail)
	}
	if username == "" || !util.ValidUsername(username) {
		logger.Warn("Seller registration rejected: invalid username", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameInvalid
	}

	if len(input.Document) == 0 {
		return nil, ErrDocumentMissing
	}
	if s.maxDocumentSize > 0 && int64(len(input.Document)) > s.maxDocumentSize {
		logger.Warn("Seller registration rejected: document too large", map[string]interface{}{
			"size":     len(input.Document),
			"max_size": s.maxDocumentSize,
		})
		return nil, ErrDocumentTooLarge
	}

	if _, err := s.sellerRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// the login email is synthesized from the username, so a clash
	// there is a username clash too
	loginEmail := fmt.Sprintf("%s@%s", username, s.loginDomain)
	if _, err := s.userRepo.FindByEmail(loginEmail); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	documentURL := ""
	if s.store != nil {
		url, err := s.store.Upload(ctx, "seller-documents", input.DocumentName, input.DocumentType, input.Document)
		if err != nil {
			logger.Error("Failed to upload seller document", err, map[string]interface{}{
				"username": username,
			})
			return nil, err
		}
		documentURL = url
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        loginEmail,
		PasswordHash: hashedPassword,
		Name:         input.LegalName,
		Phone:        input.Phone,
		Role:         model.RoleSeller,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	seller := &model.Seller{
		UserID:         user.ID,
		LegalName:      input.LegalName,
		ContactEmail:   strings.ToLower(input.ContactEmail),
		Phone:          input.Phone,
		StoreName:      input.StoreName,
		StoreCategory:  input.StoreCategory,
		Username:       username,
		DocumentURL:    documentURL,
		ApprovalStatus: model.ApprovalPending,
	}
	if err := s.sellerRepo.Create(seller); err != nil {
		return nil, err
	}

	// best-effort JSON backup of the application alongside the document
	if s.store != nil {
		if backup, err := json.Marshal(seller); err == nil {
			name := fmt.Sprintf("%s.json", username)
			if _, err := s.store.Upload(ctx, "seller-backups", name, "application/json", backup); err != nil {
				logger.Warn("Failed to back up seller application", map[string]interface{}{
					"username": username,
					"error":    err.Error(),
				})
			}
		}
	}

	logger.Info("Seller registered, awaiting review", map[string]interface{}{
		"seller_id": seller.ID,
		"username":  seller.Username,
	})
	return seller, nil
}

// Login accepts a username or the full synthesized login email. Only
// approved sellers get tokens; pending and rejected profiles fail with
// a distinct error so the client can render the right message.
func (s *sellerService) Login(login, password string) (*model.User, *model.Seller, *util.TokenPair, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	email := login
	if !strings.Contains(login, "@") {
		email = fmt.Sprintf("%s@%s", login, s.loginDomain)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Seller login failed: credential not found", map[string]interface{}{
				"login": login,
			})
			return nil, nil, nil, ErrInvalidCredentials
		}
		return nil, nil, nil, err
	}

	if !util.VerifyPassword(password, user.PasswordHash) {
		logger.Warn("Seller login failed: wrong password", map[string]interface{}{
			"login": login,
		})
		return nil, nil, nil, ErrInvalidCredentials
	}

	seller, err := s.sellerRepo.FindByUserID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Seller login failed: profile missing", map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, nil, nil, ErrSellerProfileMissing
		}
		return nil, nil, nil, err
	}

	if !seller.Approved() {
		logger.Warn("Seller login failed: not approved", map[string]interface{}{
			"seller_id": seller.ID,
			"status":    seller.ApprovalStatus,
		})
		return nil, nil, nil, ErrSellerNotApproved
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtSecret, s.accessExpiry, s.refreshExpiry,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("Seller logged in", map[string]interface{}{
		"seller_id": seller.ID,
		"username":  seller.Username,
	})
	return user, seller, tokens, nil
}

// Approve moves a pending seller to approved. Approving an already
// approved seller is a no-op; a rejected seller cannot be approved.
func (s *sellerService) Approve(sellerID uint, reviewer string) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByID(sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	switch seller.ApprovalStatus {
	case model.ApprovalApproved:
		return seller, nil
	case model.ApprovalRejected:
		return nil, ErrSellerAlreadyReviewed
	}

	now := time.Now()
	seller.ApprovalStatus = model.ApprovalApproved
	seller.ReviewedBy = reviewer
	seller.ApprovedAt = &now
	if err := s.sellerRepo.Update(seller); err != nil {
		return nil, err
	}

	logger.Info("Seller approved", map[string]interface{}{
		"seller_id": seller.ID,
		"username":  seller.Username,
		"reviewer":  reviewer,
	})

	s.notifyDecision(seller, "Your seller account has been approved",
		fmt.Sprintf("Welcome to Almira, %s! Your store %q is now live. You can sign in to your seller dashboard.", seller.LegalName, seller.StoreName))
	return seller, nil
}

// Reject moves a pending seller to rejected. Rejecting twice is a
// no-op; an approved seller cannot be rejected.
func (s *sellerService) Reject(sellerID uint, reason, reviewer string) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByID(sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	switch seller.ApprovalStatus {
	case model.ApprovalRejected:
		return seller, nil
	case model.ApprovalApproved:
		return nil, ErrSellerAlreadyReviewed
	}

	seller.ApprovalStatus = model.ApprovalRejected
	seller.RejectReason = reason
	seller.ReviewedBy = reviewer
	if err := s.sellerRepo.Update(seller); err != nil {
		return nil, err
	}

	logger.Info("Seller rejected", map[string]interface{}{
		"seller_id": seller.ID,
		"username":  seller.Username,
		"reason":    reason,
		"reviewer":  reviewer,
	})

	body := "Unfortunately your seller application was not approved."
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	s.notifyDecision(seller, "Your seller application was rejected", body)
	return seller, nil
}

// notifyDecision issues the in-app notification and email for a review
// decision. Failures are logged, never surfaced to the reviewer.
func (s *sellerService) notifyDecision(seller *model.Seller, subject, body string) {
	if s.notifier != nil {
		err := s.notifier.Notify(seller.UserID, model.NotificationSeller, subject, body, "/seller")
		if err != nil {
			logger.Warn("Failed to notify seller of review decision", map[string]interface{}{
				"seller_id": seller.ID,
				"error":     err.Error(),
			})
		}
	}
	if s.mailer != nil && seller.ContactEmail != "" {
		html := fmt.Sprintf("<p>%s</p>", body)
		if err := s.mailer.Send(seller.ContactEmail, subject, html); err != nil {
			logger.Warn("Failed to email seller of review decision", map[string]interface{}{
				"seller_id": seller.ID,
				"error":     err.Error(),
			})
		}
	}
}

func (s *sellerService) GetByID(id uint) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (s *sellerService) GetByUserID(userID uint) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerProfileMissing
		}
		return nil, err
	}
	return seller, nil
}

func (s *sellerService) List(status model.ApprovalStatus, offset, limit int) ([]model.Seller, int64, error) {
	return s.sellerRepo.List(status, offset, limit)
}
