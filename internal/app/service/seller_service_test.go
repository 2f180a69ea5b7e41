package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
)

// stubStore keeps uploads in memory.
type stubStore struct {
	uploads map[string][]byte
}

func (s *stubStore) Upload(_ context.Context, folder, filename, _ string, data []byte) (string, error) {
	if s.uploads == nil {
		s.uploads = make(map[string][]byte)
	}
	key := fmt.Sprintf("%s/%s", folder, filename)
	s.uploads[key] = data
	return "https://cdn.example.com/" + key, nil
}

func setupSellerServiceTest(t *testing.T) (SellerService, *stubStore) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	sellerRepo := repository.NewSellerRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	store := &stubStore{}

	sellerService := NewSellerService(
		sellerRepo,
		userRepo,
		nil,
		store,
		nil,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
		"sellers.almira.shop",
		1024,
		5*time.Second,
	)
	return sellerService, store
}

func validRegistration() SellerRegistration {
	return SellerRegistration{
		LegalName:     "Noor Fashion LLC",
		ContactEmail:  "noor@example.com",
		Phone:         "+971501234567",
		StoreName:     "Noor Abayas",
		StoreCategory: "abayas",
		Username:      "noorabayas",
		Password:      "password123",
		DocumentName:  "license.pdf",
		DocumentType:  "application/pdf",
		Document:      []byte("trade license"),
	}
}

func TestSellerService_Register(t *testing.T) {
	sellerService, store := setupSellerServiceTest(t)

	seller, err := sellerService.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NotNil(t, seller)

	assert.Equal(t, model.ApprovalPending, seller.ApprovalStatus)
	assert.False(t, seller.Approved())
	assert.Equal(t, "noorabayas", seller.Username)
	assert.Equal(t, "https://cdn.example.com/seller-documents/license.pdf", seller.DocumentURL)

	// the application is backed up alongside the document
	assert.Contains(t, store.uploads, "seller-documents/license.pdf")
	assert.Contains(t, store.uploads, "seller-backups/noorabayas.json")
}

func TestSellerService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SellerRegistration)
		wantErr error
	}{
		{
			name:    "Missing legal name",
			mutate:  func(r *SellerRegistration) { r.LegalName = "" },
			wantErr: ErrRegistrationIncomplete,
		},
		{
			name:    "Missing password",
			mutate:  func(r *SellerRegistration) { r.Password = "" },
			wantErr: ErrRegistrationIncomplete,
		},
		{
			name:    "Username with spaces",
			mutate:  func(r *SellerRegistration) { r.Username = "noor abayas" },
			wantErr: ErrUsernameInvalid,
		},
		{
			name:    "Missing document",
			mutate:  func(r *SellerRegistration) { r.Document = nil },
			wantErr: ErrDocumentMissing,
		},
		{
			name:    "Document too large",
			mutate:  func(r *SellerRegistration) { r.Document = bytes.Repeat([]byte("x"), 2048) },
			wantErr: ErrDocumentTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sellerService, store := setupSellerServiceTest(t)

			input := validRegistration()
			tt.mutate(&input)

			seller, err := sellerService.Register(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, seller)

			// a rejected application writes nothing
			assert.Empty(t, store.uploads)
		})
	}
}

func TestSellerService_Register_UsernameDerivedFromEmail(t *testing.T) {
	sellerService, _ := setupSellerServiceTest(t)

	input := validRegistration()
	input.Username = ""
	input.ContactEmail = "Jane.Doe+test@Example.com"

	seller, err := sellerService.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "janedoetest", seller.Username)
}

func TestSellerService_Register_UsernameTaken(t *testing.T) {
	sellerService, _ := setupSellerServiceTest(t)

	_, err := sellerService.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	input := validRegistration()
	input.ContactEmail = "other@example.com"

	seller, err := sellerService.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Nil(t, seller)
}

func TestSellerService_LoginLifecycle(t *testing.T) {
	sellerService, _ := setupSellerServiceTest(t)

	registered, err := sellerService.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	t.Run("Pending seller cannot sign in", func(t *testing.T) {
		user, seller, tokens, err := sellerService.Login("noorabayas", "password123")
		assert.ErrorIs(t, err, ErrSellerNotApproved)
		assert.Nil(t, user)
		assert.Nil(t, seller)
		assert.Nil(t, tokens)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, _, err := sellerService.Login("noorabayas", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown username", func(t *testing.T) {
		_, _, _, err := sellerService.Login("ghost", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	approved, err := sellerService.Approve(registered.ID, "admin@almira.shop")
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, approved.ApprovalStatus)
	assert.Equal(t, "admin@almira.shop", approved.ReviewedBy)
	assert.NotNil(t, approved.ApprovedAt)

	t.Run("Approved seller signs in by username", func(t *testing.T) {
		user, seller, tokens, err := sellerService.Login("noorabayas", "password123")
		require.NoError(t, err)
		assert.Equal(t, model.RoleSeller, user.Role)
		assert.True(t, seller.Approved())
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("Approved seller signs in by synthesized email", func(t *testing.T) {
		_, _, tokens, err := sellerService.Login("noorabayas@sellers.almira.shop", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
	})
}

func TestSellerService_ReviewTransitions(t *testing.T) {
	t.Run("Approve is idempotent", func(t *testing.T) {
		sellerService, _ := setupSellerServiceTest(t)
		registered, err := sellerService.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		_, err = sellerService.Approve(registered.ID, "admin@almira.shop")
		require.NoError(t, err)
		again, err := sellerService.Approve(registered.ID, "admin@almira.shop")
		require.NoError(t, err)
		assert.Equal(t, model.ApprovalApproved, again.ApprovalStatus)
	})

	t.Run("Rejected seller cannot be approved", func(t *testing.T) {
		sellerService, _ := setupSellerServiceTest(t)
		registered, err := sellerService.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		rejected, err := sellerService.Reject(registered.ID, "incomplete documents", "admin@almira.shop")
		require.NoError(t, err)
		assert.Equal(t, model.ApprovalRejected, rejected.ApprovalStatus)
		assert.Equal(t, "incomplete documents", rejected.RejectReason)

		_, err = sellerService.Approve(registered.ID, "admin@almira.shop")
		assert.ErrorIs(t, err, ErrSellerAlreadyReviewed)

		// rejection still blocks login
		_, _, _, err = sellerService.Login("noorabayas", "password123")
		assert.ErrorIs(t, err, ErrSellerNotApproved)
	})

	t.Run("Approved seller cannot be rejected", func(t *testing.T) {
		sellerService, _ := setupSellerServiceTest(t)
		registered, err := sellerService.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		_, err = sellerService.Approve(registered.ID, "admin@almira.shop")
		require.NoError(t, err)

		_, err = sellerService.Reject(registered.ID, "changed our mind", "admin@almira.shop")
		assert.ErrorIs(t, err, ErrSellerAlreadyReviewed)
	})

	t.Run("Unknown seller", func(t *testing.T) {
		sellerService, _ := setupSellerServiceTest(t)
		_, err := sellerService.Approve(9999, "admin@almira.shop")
		assert.ErrorIs(t, err, ErrSellerNotFound)
	})
}
