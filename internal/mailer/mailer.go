package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"sync"

	"backend/internal/config"
)

// Message is one composed email waiting for the dispatch worker.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer decouples notification delivery from the request path. Enqueue
// never blocks: when the queue is full the message is dropped with a
// warning. The worker retries a failed send once and then gives up;
// notification failure is never surfaced to clients.
type Mailer struct {
	cfg   config.Config
	queue chan Message
	wg    sync.WaitGroup
	send  func(Message) error
}

func New(cfg config.Config) *Mailer {
	m := &Mailer{
		cfg:   cfg,
		queue: make(chan Message, 256),
	}
	m.send = m.sendSMTP
	m.wg.Add(1)
	go m.run()
	return m
}

func (m *Mailer) run() {
	defer m.wg.Done()
	for msg := range m.queue {
		if err := m.send(msg); err != nil {
			log.Printf("[MAIL] [ERROR] send to %s failed, retrying: %v", msg.To, err)
			if err := m.send(msg); err != nil {
				log.Printf("[MAIL] [ERROR] send to %s failed permanently: %v", msg.To, err)
			}
		}
	}
}

func (m *Mailer) Enqueue(msg Message) {
	if strings.TrimSpace(msg.To) == "" {
		return
	}
	select {
	case m.queue <- msg:
	default:
		log.Println("[MAIL] [ERROR] queue full, dropping message to:", msg.To)
	}
}

// Close drains the queue and stops the worker.
func (m *Mailer) Close() {
	close(m.queue)
	m.wg.Wait()
}

func (m *Mailer) sendSMTP(msg Message) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	raw := "From: " + m.cfg.MailSender + "\r\n" +
		"To: " + msg.To + "\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		msg.Body

	return smtp.SendMail(addr, auth, m.cfg.MailSender, []string{msg.To}, []byte(raw))
}

func (m *Mailer) SendOTP(recipient, otpCode string) {
	m.Enqueue(Message{
		To:      recipient,
		Subject: "Kash.it - Email Verification OTP",
		Body: fmt.Sprintf("Welcome to Kash.it!\n\n"+
			"Your verification code is: %s\n\n"+
			"This code expires in 10 minutes.\n", otpCode),
	})
}

func (m *Mailer) SendPasswordReset(recipient, otpCode string) {
	m.Enqueue(Message{
		To:      recipient,
		Subject: "Kash.it - Password Reset OTP",
		Body: fmt.Sprintf("A password reset was requested for your account.\n\n"+
			"Your reset code is: %s\n\n"+
			"This code expires in 10 minutes. If you did not request a reset, ignore this email.\n", otpCode),
	})
}

func (m *Mailer) SendVendorCredentials(recipient, tempPassword, businessName string) {
	m.Enqueue(Message{
		To:      recipient,
		Subject: "Kash.it - Vendor Account Created",
		Body: fmt.Sprintf("Hello %s,\n\n"+
			"A vendor account has been created for you.\n\n"+
			"Login email: %s\nTemporary password: %s\n\n"+
			"Please log in and change your password.\n", businessName, recipient, tempPassword),
	})
}

func (m *Mailer) SendDeliveryPartnerReview(adminEmail, partnerEmail, fullName, phone string) {
	m.Enqueue(Message{
		To:      adminEmail,
		Subject: "Kash.it - New Delivery Partner Registration",
		Body: fmt.Sprintf("A new delivery partner registered and is awaiting verification.\n\n"+
			"Name: %s\nEmail: %s\nPhone: %s\n", fullName, partnerEmail, phone),
	})
}

// OrderLine is one line of an order notification.
type OrderLine struct {
	ProductName string
	Quantity    int
	Price       float64
	VendorEmail string
}

// SendOrderNotifications fans an order out to each distinct vendor
// represented in it plus the fixed administrative address.
func (m *Mailer) SendOrderNotifications(orderID uint, customerEmail string, totalAmount, finalAmount float64, lines []OrderLine) {
	byVendor := make(map[string][]OrderLine)
	for _, line := range lines {
		if line.VendorEmail != "" {
			byVendor[line.VendorEmail] = append(byVendor[line.VendorEmail], line)
		}
	}

	for vendorEmail, vendorLines := range byVendor {
		var b strings.Builder
		fmt.Fprintf(&b, "You have new items to fulfil in order #%d:\n\n", orderID)
		for _, line := range vendorLines {
			fmt.Fprintf(&b, "  %s x%d @ %.2f\n", line.ProductName, line.Quantity, line.Price)
		}
		m.Enqueue(Message{
			To:      vendorEmail,
			Subject: fmt.Sprintf("Kash.it - New Order #%d", orderID),
			Body:    b.String(),
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d placed by %s.\n\n", orderID, customerEmail)
	for _, line := range lines {
		fmt.Fprintf(&b, "  %s x%d @ %.2f\n", line.ProductName, line.Quantity, line.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\nPayable: %.2f\n", totalAmount, finalAmount)
	m.Enqueue(Message{
		To:      m.cfg.AdminEmail,
		Subject: fmt.Sprintf("Kash.it - New Order #%d - Admin Notification", orderID),
		Body:    b.String(),
	})
}
