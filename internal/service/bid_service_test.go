package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
)

// memBidStore — хранилище откликов в памяти с теми же условными записями и
// сентинелами, что и у SQL репозитория.
type memBidStore struct {
	mu   sync.Mutex
	bids map[uuid.UUID]*models.Bid
	gigs map[uuid.UUID]*models.Gig
}

func newMemBidStore() *memBidStore {
	return &memBidStore{
		bids: make(map[uuid.UUID]*models.Bid),
		gigs: make(map[uuid.UUID]*models.Gig),
	}
}

func (s *memBidStore) addGig(ownerID uuid.UUID, status string) *models.Gig {
	s.mu.Lock()
	defer s.mu.Unlock()
	gig := &models.Gig{ID: uuid.New(), OwnerID: ownerID, Status: status}
	s.gigs[gig.ID] = gig
	return gig
}

func (s *memBidStore) setBidStatus(id uuid.UUID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids[id].Status = status
}

func (s *memBidStore) Create(ctx context.Context, bid *models.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gig, ok := s.gigs[bid.GigID]
	if !ok || gig.Status != models.GigStatusOpen {
		return repository.ErrGigNotOpen
	}
	for _, existing := range s.bids {
		if existing.GigID == bid.GigID && existing.FreelancerID == bid.FreelancerID {
			return repository.ErrDuplicateBid
		}
	}

	bid.ID = uuid.New()
	bid.Status = models.BidStatusPending
	copied := *bid
	s.bids[bid.ID] = &copied
	return nil
}

func (s *memBidStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bid, ok := s.bids[id]
	if !ok {
		return nil, repository.ErrBidNotFound
	}
	copied := *bid
	return &copied, nil
}

func (s *memBidStore) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bid
	for _, bid := range s.bids {
		if bid.GigID == gigID {
			out = append(out, *bid)
		}
	}
	return out, nil
}

func (s *memBidStore) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bid
	for _, bid := range s.bids {
		if bid.FreelancerID == freelancerID {
			out = append(out, *bid)
		}
	}
	return out, nil
}

func (s *memBidStore) UpdateIfPending(ctx context.Context, id uuid.UUID, message string, proposedPrice float64, deliveryDays int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bid, ok := s.bids[id]
	if !ok || bid.Status != models.BidStatusPending {
		return false, nil
	}
	bid.Message = message
	bid.ProposedPrice = proposedPrice
	bid.DeliveryDays = deliveryDays
	return true, nil
}

func (s *memBidStore) DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bid, ok := s.bids[id]
	if !ok || bid.Status != models.BidStatusPending {
		return false, nil
	}
	delete(s.bids, id)
	return true, nil
}

// GetByID для GigReader.
type memGigReader struct {
	store *memBidStore
}

func (r *memGigReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gig, ok := r.store.gigs[id]
	if !ok {
		return nil, repository.ErrGigNotFound
	}
	copied := *gig
	return &copied, nil
}

func newBidServiceForTest() (*BidService, *memBidStore) {
	store := newMemBidStore()
	return NewBidService(store, &memGigReader{store: store}), store
}

func validMessage() string {
	return strings.Repeat("описание работы ", 3)
}

func TestSubmitBidCreatesPending(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)
	freelancer := uuid.New()

	bid, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  freelancer,
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if err != nil {
		t.Fatalf("Submit: неожиданная ошибка %v", err)
	}
	if bid.Status != models.BidStatusPending {
		t.Errorf("статус нового отклика = %s, ожидался pending", bid.Status)
	}
	if bid.ID == uuid.Nil {
		t.Error("идентификатор отклика не присвоен")
	}
}

func TestSubmitBidRejectsDuplicate(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)
	freelancer := uuid.New()

	in := SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  freelancer,
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	}

	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("первый Submit: неожиданная ошибка %v", err)
	}

	_, err := svc.Submit(context.Background(), in)
	if !errors.Is(err, apperror.ErrDuplicateBid) {
		t.Fatalf("ожидался ErrDuplicateBid, получено %v", err)
	}
}

func TestSubmitBidRejectsOwnGig(t *testing.T) {
	svc, store := newBidServiceForTest()
	owner := uuid.New()
	gig := store.addGig(owner, models.GigStatusOpen)

	_, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  owner,
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if !errors.Is(err, apperror.ErrSelfBidForbidden) {
		t.Fatalf("ожидался ErrSelfBidForbidden, получено %v", err)
	}
}

func TestSubmitBidRejectsClosedGig(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusAssigned)

	_, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  uuid.New(),
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if !errors.Is(err, apperror.ErrGigNotOpen) {
		t.Fatalf("ожидался ErrGigNotOpen, получено %v", err)
	}
}

func TestSubmitBidValidation(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)

	cases := []struct {
		name string
		in   SubmitBidInput
	}{
		{
			name: "короткое сообщение",
			in:   SubmitBidInput{GigID: gig.ID, FreelancerID: uuid.New(), Message: "коротко", ProposedPrice: 500, DeliveryDays: 7},
		},
		{
			name: "нулевая цена",
			in:   SubmitBidInput{GigID: gig.ID, FreelancerID: uuid.New(), Message: validMessage(), ProposedPrice: 0, DeliveryDays: 7},
		},
		{
			name: "нулевой срок",
			in:   SubmitBidInput{GigID: gig.ID, FreelancerID: uuid.New(), Message: validMessage(), ProposedPrice: 500, DeliveryDays: 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.in)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeValidation {
				t.Fatalf("ожидалась ошибка валидации, получено %v", err)
			}
		})
	}
}

func TestUpdateBidAfterDecision(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)
	freelancer := uuid.New()

	bid, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  freelancer,
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if err != nil {
		t.Fatalf("Submit: неожиданная ошибка %v", err)
	}

	// Найм решил судьбу отклика, правки больше не проходят.
	store.setBidStatus(bid.ID, models.BidStatusHired)

	_, err = svc.Update(context.Background(), bid.ID, freelancer, UpdateBidInput{
		Message:       validMessage(),
		ProposedPrice: 700,
		DeliveryDays:  5,
	})
	if !errors.Is(err, apperror.ErrBidAlreadyDecided) {
		t.Fatalf("ожидался ErrBidAlreadyDecided, получено %v", err)
	}
}

func TestUpdateBidForeign(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)

	bid, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  uuid.New(),
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if err != nil {
		t.Fatalf("Submit: неожиданная ошибка %v", err)
	}

	_, err = svc.Update(context.Background(), bid.ID, uuid.New(), UpdateBidInput{
		Message:       validMessage(),
		ProposedPrice: 700,
		DeliveryDays:  5,
	})
	if !errors.Is(err, apperror.ErrNotBidOwner) {
		t.Fatalf("ожидался ErrNotBidOwner, получено %v", err)
	}
}

func TestWithdrawBidAfterDecision(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)
	freelancer := uuid.New()

	bid, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  freelancer,
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if err != nil {
		t.Fatalf("Submit: неожиданная ошибка %v", err)
	}

	store.setBidStatus(bid.ID, models.BidStatusRejected)

	err = svc.Withdraw(context.Background(), bid.ID, freelancer)
	if !errors.Is(err, apperror.ErrBidAlreadyDecided) {
		t.Fatalf("ожидался ErrBidAlreadyDecided, получено %v", err)
	}

	// Отклик остался в хранилище нетронутым.
	if _, err := store.GetByID(context.Background(), bid.ID); err != nil {
		t.Errorf("отклик пропал после отклонённого отзыва: %v", err)
	}
}

func TestWithdrawBidRemovesPending(t *testing.T) {
	svc, store := newBidServiceForTest()
	gig := store.addGig(uuid.New(), models.GigStatusOpen)
	freelancer := uuid.New()

	bid, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  freelancer,
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	})
	if err != nil {
		t.Fatalf("Submit: неожиданная ошибка %v", err)
	}

	if err := svc.Withdraw(context.Background(), bid.ID, freelancer); err != nil {
		t.Fatalf("Withdraw: неожиданная ошибка %v", err)
	}

	if _, err := store.GetByID(context.Background(), bid.ID); !errors.Is(err, repository.ErrBidNotFound) {
		t.Errorf("отклик должен быть удалён, получено %v", err)
	}
}

func TestListForGigOnlyOwner(t *testing.T) {
	svc, store := newBidServiceForTest()
	owner := uuid.New()
	gig := store.addGig(owner, models.GigStatusOpen)

	if _, err := svc.Submit(context.Background(), SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  uuid.New(),
		Message:       validMessage(),
		ProposedPrice: 500,
		DeliveryDays:  7,
	}); err != nil {
		t.Fatalf("Submit: неожиданная ошибка %v", err)
	}

	if _, err := svc.ListForGig(context.Background(), gig.ID, uuid.New()); !errors.Is(err, apperror.ErrNotGigOwner) {
		t.Fatalf("ожидался ErrNotGigOwner, получено %v", err)
	}

	bids, err := svc.ListForGig(context.Background(), gig.ID, owner)
	if err != nil {
		t.Fatalf("ListForGig: неожиданная ошибка %v", err)
	}
	if len(bids) != 1 {
		t.Errorf("откликов = %d, ожидался один", len(bids))
	}
}
