package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motorpool/config"
	kafkaMocks "motorpool/infras/kafka/mocks"
	"motorpool/infras/kafka"
	"motorpool/infras/otel/mocks"
	userMocks "motorpool/internal/domains/user/mocks"
	userModel "motorpool/internal/domains/user/model"
	resModel "motorpool/internal/domains/reservation/model"
	"motorpool/internal/notifier"
)

func newNotifier(t *testing.T) (notifier.Notifier, *userMocks.MockUser, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockProducer := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Topics.ReservationNotifications = "reservation-notifications"

	n := notifier.New(mockUserRepo, mockProducer, cfg, mocks.NewOtel())

	return n, mockUserRepo, mockProducer
}

func testReservation() resModel.Reservation {
	return resModel.Reservation{
		ID:             "res-1",
		UserID:         "user-1",
		CarpoolUserIDs: []string{"user-2"},
		CarpoolDetails: resModel.CarpoolDetails{
			{UserID: "user-2", Name: "Companion", Email: "companion@example.com"},
		},
	}
}

func TestNotifier_Notify(t *testing.T) {
	n, mockUserRepo, mockProducer := newNotifier(t)

	mockUserRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{
			{ID: "user-1", Email: "owner@example.com", Active: true},
			{ID: "user-2", Email: "companion@example.com", Active: true},
		}, nil)

	mockProducer.EXPECT().
		SendMessages(gomock.Any(), "reservation-notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			assert.Len(t, messages, 1)
			assert.Equal(t, "res-1", messages[0].Key)

			event, ok := messages[0].Value.(notifier.Event)
			assert.True(t, ok)
			assert.Equal(t, notifier.EventReservationApproved, event.Type)
			// The companion email appears once despite being both a linked
			// user and a snapshot member.
			assert.Equal(t, []string{"owner@example.com", "companion@example.com"}, event.Recipients)

			return nil
		})

	start := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC)

	n.Notify(context.Background(), notifier.EventReservationApproved, testReservation(), "Kangoo", start, end)
}

func TestNotifier_Notify_SnapshotFallback(t *testing.T) {
	n, mockUserRepo, mockProducer := newNotifier(t)

	// The companion account is gone; its snapshot email still gets notified.
	mockUserRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{
			{ID: "user-1", Email: "owner@example.com", Active: true},
		}, nil)

	mockProducer.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			event := messages[0].Value.(notifier.Event)
			assert.Contains(t, event.Recipients, "companion@example.com")

			return nil
		})

	n.Notify(context.Background(), notifier.EventSegmentAssigned, testReservation(), "Kangoo", time.Now(), time.Now().Add(time.Hour))
}

func TestNotifier_Notify_NoRecipients(t *testing.T) {
	n, mockUserRepo, _ := newNotifier(t)

	mockUserRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{}, nil)

	// No recipients, no publish; the producer mock stays silent.
	n.Notify(context.Background(), notifier.EventDayRemoved, resModel.Reservation{ID: "res-1", UserID: "user-1"}, "", time.Now(), time.Now().Add(time.Hour))
}

func TestNotifier_Notify_RepoErrorSwallowed(t *testing.T) {
	n, mockUserRepo, _ := newNotifier(t)

	mockUserRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("database error"))

	// Lookup failures are logged, not surfaced.
	n.Notify(context.Background(), notifier.EventReservationApproved, testReservation(), "Kangoo", time.Now(), time.Now().Add(time.Hour))
}

func TestNotifier_Notify_PublishErrorSwallowed(t *testing.T) {
	n, mockUserRepo, mockProducer := newNotifier(t)

	mockUserRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{{ID: "user-1", Email: "owner@example.com", Active: true}}, nil)

	mockProducer.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))

	n.Notify(context.Background(), notifier.EventReservationApproved, testReservation(), "Kangoo", time.Now(), time.Now().Add(time.Hour))
}
