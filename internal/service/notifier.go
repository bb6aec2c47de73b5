package service

import (
	"fmt"
	"log"

	"parkwise/internal/db"
)

// Notifier is the fire-and-forget hook invoked when a request is created
// or decided. Failures are logged, never surfaced to the caller.
type Notifier interface {
	RequestCreated(user *db.User, req *db.SlotRequest)
	RequestApproved(user *db.User, req *db.SlotRequest, slot *db.ParkingSlot)
	RequestRejected(user *db.User, req *db.SlotRequest, reason string)
}

// NotifyService delivers notifications by email and, when the user has a
// phone number on file, SMS.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (n *NotifyService) RequestCreated(user *db.User, req *db.SlotRequest) {
	subject := "Your parking slot request was received"
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your parking slot request %s. "+
			"You will be notified once an administrator reviews it.\n\nParkWise",
		user.Name, req.ID)
	sms := fmt.Sprintf("ParkWise: request %s received and pending review.", req.ID)
	n.send(user, req.ID, subject, body, sms)
}

func (n *NotifyService) RequestApproved(user *db.User, req *db.SlotRequest, slot *db.ParkingSlot) {
	subject := "Your parking slot request was approved"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour parking slot request %s has been approved.\n"+
			"Assigned slot: %s (%s)\n\nParkWise",
		user.Name, req.ID, slot.SlotNumber, slot.Location)
	sms := fmt.Sprintf("ParkWise: request %s approved. Slot %s (%s).", req.ID, slot.SlotNumber, slot.Location)
	n.send(user, req.ID, subject, body, sms)
}

func (n *NotifyService) RequestRejected(user *db.User, req *db.SlotRequest, reason string) {
	subject := "Your parking slot request was rejected"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour parking slot request %s has been rejected.\n"+
			"Reason: %s\n\nParkWise",
		user.Name, req.ID, reason)
	sms := fmt.Sprintf("ParkWise: request %s rejected. Reason: %s", req.ID, reason)
	n.send(user, req.ID, subject, body, sms)
}

func (n *NotifyService) send(user *db.User, requestID, subject, body, sms string) {
	go func() {
		if err := SendEmailWithSendGrid(user.Email, user.Name, subject, body); err != nil {
			log.Printf("notification email for request %s failed: %v", requestID, err)
		}
		if user.Phone == "" {
			return
		}
		if err := SendSMS(user.Phone, sms); err != nil {
			log.Printf("notification SMS for request %s failed: %v", requestID, err)
		}
	}()
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) RequestCreated(*db.User, *db.SlotRequest)                   {}
func (NopNotifier) RequestApproved(*db.User, *db.SlotRequest, *db.ParkingSlot) {}
func (NopNotifier) RequestRejected(*db.User, *db.SlotRequest, string)          {}
