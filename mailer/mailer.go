// Package mailer เป็น stub แจ้งเตือนทางอีเมล — ยังไม่ต่อ SMTP/API จริง
package mailer

import "log"

type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer เขียนลง log แทนการส่งจริง ใช้ทั้ง dev และ tests
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (m *LogMailer) Send(to, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q\n%s", to, subject, body)
	return nil
}
