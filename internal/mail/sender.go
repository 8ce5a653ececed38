// Package mail は認証コードのメール送信を提供する。
// 送信は外部コラボレータへのファイアアンドフォーゲット呼び出しであり、
// 失敗はログに記録するのみでリトライしない。
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender はメール送信のインターフェース。
type Sender interface {
	// SendOTP は認証コードを指定アドレスへ送信する。
	SendOTP(ctx context.Context, to, otp string) error
}

// SMTPConfig はSMTP送信の設定。
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPSender はnet/smtpを使用したSender実装。
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender はSMTPSenderを生成する。
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

// SendOTP は認証コードをSMTP経由で送信する。
func (s *SMTPSender) SendOTP(ctx context.Context, to, otp string) error {
	body := buildOTPMessage(s.config.From, to, otp)

	addr := s.config.Host + ":" + s.config.Port
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}

	return nil
}

// buildOTPMessage は認証コードメールの本文を組み立てる。
func buildOTPMessage(from, to, otp string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Scoutbase verification code\r\n")
	b.WriteString("\r\n")
	b.WriteString("Your verification code is: " + otp + "\r\n")
	b.WriteString("This code expires shortly. If you did not request it, ignore this mail.\r\n")
	return b.String()
}

// LogSender はメールを送信せずログに出力するSender実装。
// SMTPが未設定のローカル開発環境で使用する。
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender はLogSenderを生成する。
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendOTP は認証コードをログに出力する。
func (s *LogSender) SendOTP(ctx context.Context, to, otp string) error {
	s.logger.Info("otp mail (log sender)",
		slog.String("to", to),
		slog.String("otp", otp),
	)
	return nil
}

// compile-time interface check
var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*LogSender)(nil)
)
