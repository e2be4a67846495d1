package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) SendBookingReceived(ctx context.Context, adminEmail, customerName, carLabel string) error {
	body := fmt.Sprintf("Hello,\n\n%s has requested to rent %s. The booking is waiting for review.\n\nBest regards,\nThe Rental Team", customerName, carLabel)
	return s.send(adminEmail, "New Booking Request", body)
}

func (s *emailService) SendRentalApproved(ctx context.Context, customerEmail, carLabel, startDate string) error {
	body := fmt.Sprintf("Hello,\n\nYour booking for %s has been approved. Pickup is scheduled for %s.\n\nBest regards,\nThe Rental Team", carLabel, startDate)
	return s.send(customerEmail, "Booking Approved", body)
}

func (s *emailService) SendRentalRejected(ctx context.Context, customerEmail, carLabel string) error {
	body := fmt.Sprintf("Hello,\n\nUnfortunately your booking for %s has been rejected.\n\nBest regards,\nThe Rental Team", carLabel)
	return s.send(customerEmail, "Booking Rejected", body)
}

func (s *emailService) SendRentalCancelled(ctx context.Context, customerEmail, carLabel string) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s has been cancelled.\n\nBest regards,\nThe Rental Team", carLabel)
	return s.send(customerEmail, "Rental Cancelled", body)
}

func (s *emailService) SendRentalCompleted(ctx context.Context, customerEmail, carLabel string, totalCostCents int64) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s is complete. The total charge was $%.2f.\n\nBest regards,\nThe Rental Team", carLabel, float64(totalCostCents)/100)
	return s.send(customerEmail, "Rental Completed", body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, customerEmail, carLabel, endDate string) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s was due back on %s. Please return the car as soon as possible.\n\nBest regards,\nThe Rental Team", carLabel, endDate)
	return s.send(customerEmail, "Rental Overdue", body)
}
