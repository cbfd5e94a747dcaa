package services_test

import (
	"testing"

	"pustaka/internal/apperr"
	"pustaka/internal/models"
	"pustaka/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSupportService_CreateTicket_MessageFloor(t *testing.T) {
	supportRepo := new(MockSupportRepository)
	notificationRepo := new(MockNotificationRepository)
	service := services.NewSupportService(supportRepo, notificationRepo)

	_, err := service.CreateTicket("user-1", "Help", "too short")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	supportRepo.AssertNotCalled(t, "Create", mock.Anything)

	supportRepo.On("Create", mock.AnythingOfType("*models.SupportTicket")).Return(nil).Once()
	ticket, err := service.CreateTicket("user-1", "Help", "my order never arrived")
	assert.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	supportRepo.AssertExpectations(t)
}

func TestSupportService_UpdateTicketStatus(t *testing.T) {
	supportRepo := new(MockSupportRepository)
	notificationRepo := new(MockNotificationRepository)
	service := services.NewSupportService(supportRepo, notificationRepo)

	err := service.UpdateTicketStatus("ticket-1", models.TicketStatus("bogus"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ticket := &models.SupportTicket{ID: "ticket-1", Status: models.TicketOpen}
	supportRepo.On("GetByID", "ticket-1").Return(ticket, nil).Once()
	supportRepo.On("UpdateStatus", "ticket-1", models.TicketAnswered).Return(nil).Once()

	assert.NoError(t, service.UpdateTicketStatus("ticket-1", models.TicketAnswered))
	supportRepo.AssertExpectations(t)
}

func TestSupportService_MarkNotificationRead(t *testing.T) {
	supportRepo := new(MockSupportRepository)
	notificationRepo := new(MockNotificationRepository)
	service := services.NewSupportService(supportRepo, notificationRepo)

	notificationRepo.On("MarkRead", "user-1", "n-1").Return(nil).Once()
	assert.NoError(t, service.MarkNotificationRead("user-1", "n-1"))
	notificationRepo.AssertExpectations(t)
}
