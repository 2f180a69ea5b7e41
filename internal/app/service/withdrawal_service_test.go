package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
)

type withdrawalFixture struct {
	service    WithdrawalService
	sellerRepo repository.SellerRepository
	user       *model.User
	seller     *model.Seller
}

func setupWithdrawalTest(t *testing.T, balance int64, status model.ApprovalStatus) *withdrawalFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	sellerRepo := repository.NewSellerRepository(testDB)
	withdrawalRepo := repository.NewWithdrawalRepository(testDB)

	user := &model.User{Email: "store@sellers.almira.shop", PasswordHash: "x", Name: "Store", Role: model.RoleSeller}
	require.NoError(t, userRepo.Create(user))

	seller := &model.Seller{
		UserID:         user.ID,
		LegalName:      "Store LLC",
		ContactEmail:   "store@example.com",
		StoreName:      "Store",
		Username:       "store",
		ApprovalStatus: status,
		Balance:        balance,
	}
	require.NoError(t, sellerRepo.Create(seller))

	return &withdrawalFixture{
		service:    NewWithdrawalService(withdrawalRepo, sellerRepo, nil),
		sellerRepo: sellerRepo,
		user:       user,
		seller:     seller,
	}
}

func (f *withdrawalFixture) balance(t *testing.T) int64 {
	seller, err := f.sellerRepo.FindByID(f.seller.ID)
	require.NoError(t, err)
	return seller.Balance
}

func TestWithdrawalService_Request(t *testing.T) {
	t.Run("Invalid amount", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)

		_, err := f.service.Request(f.user.ID, 0)
		assert.ErrorIs(t, err, ErrWithdrawalInvalidAmount)
		_, err = f.service.Request(f.user.ID, -500)
		assert.ErrorIs(t, err, ErrWithdrawalInvalidAmount)
	})

	t.Run("No seller profile", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)

		_, err := f.service.Request(f.user.ID+100, 1000)
		assert.ErrorIs(t, err, ErrSellerProfileMissing)
	})

	t.Run("Pending seller", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalPending)

		_, err := f.service.Request(f.user.ID, 1000)
		assert.ErrorIs(t, err, ErrSellerNotApproved)
	})

	t.Run("Insufficient balance", func(t *testing.T) {
		f := setupWithdrawalTest(t, 500, model.ApprovalApproved)

		_, err := f.service.Request(f.user.ID, 1000)
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		// the failed request must not touch the balance
		assert.Equal(t, int64(500), f.balance(t))
	})

	t.Run("Success deducts balance", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)

		withdrawal, err := f.service.Request(f.user.ID, 4000)
		require.NoError(t, err)
		assert.Equal(t, model.WithdrawalPending, withdrawal.Status)
		assert.Equal(t, int64(4000), withdrawal.Amount)
		assert.Equal(t, f.seller.ID, withdrawal.SellerID)

		assert.Equal(t, int64(6000), f.balance(t))

		// the remaining balance caps further requests
		_, err = f.service.Request(f.user.ID, 7000)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestWithdrawalService_Review(t *testing.T) {
	t.Run("Approve keeps the deduction", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)
		withdrawal, err := f.service.Request(f.user.ID, 4000)
		require.NoError(t, err)

		reviewed, err := f.service.Review(withdrawal.ID, model.WithdrawalApproved, "paid via transfer")
		require.NoError(t, err)
		assert.Equal(t, model.WithdrawalApproved, reviewed.Status)
		assert.Equal(t, "paid via transfer", reviewed.Note)

		assert.Equal(t, int64(6000), f.balance(t))
	})

	t.Run("Reject refunds the balance", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)
		withdrawal, err := f.service.Request(f.user.ID, 4000)
		require.NoError(t, err)
		require.Equal(t, int64(6000), f.balance(t))

		reviewed, err := f.service.Review(withdrawal.ID, model.WithdrawalRejected, "missing bank details")
		require.NoError(t, err)
		assert.Equal(t, model.WithdrawalRejected, reviewed.Status)

		assert.Equal(t, int64(10000), f.balance(t))
	})

	t.Run("Double review", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)
		withdrawal, err := f.service.Request(f.user.ID, 4000)
		require.NoError(t, err)

		_, err = f.service.Review(withdrawal.ID, model.WithdrawalApproved, "")
		require.NoError(t, err)

		_, err = f.service.Review(withdrawal.ID, model.WithdrawalRejected, "")
		assert.ErrorIs(t, err, ErrWithdrawalNotPending)

		// the approved deduction stays in place
		assert.Equal(t, int64(6000), f.balance(t))
	})

	t.Run("Invalid target status", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)
		withdrawal, err := f.service.Request(f.user.ID, 4000)
		require.NoError(t, err)

		_, err = f.service.Review(withdrawal.ID, model.WithdrawalPending, "")
		assert.ErrorIs(t, err, ErrWithdrawalNotPending)
	})

	t.Run("Unknown withdrawal", func(t *testing.T) {
		f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)

		_, err := f.service.Review(9999, model.WithdrawalApproved, "")
		assert.ErrorIs(t, err, ErrWithdrawalNotFound)
	})
}

func TestWithdrawalService_ListForSeller(t *testing.T) {
	f := setupWithdrawalTest(t, 10000, model.ApprovalApproved)

	_, err := f.service.Request(f.user.ID, 1000)
	require.NoError(t, err)
	_, err = f.service.Request(f.user.ID, 2000)
	require.NoError(t, err)

	withdrawals, err := f.service.ListForSeller(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, withdrawals, 2)

	_, err = f.service.ListForSeller(f.user.ID + 100)
	assert.ErrorIs(t, err, ErrSellerProfileMissing)
}
