package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"contest-arena/backend/config"
)

// Mailer 事务邮件发送接口
// Service 层只依赖此接口，便于在测试中注入内存实现
type Mailer interface {
	SendVerificationEmail(to, name, verifyURL string) error
	SendPasswordResetEmail(to, name, resetURL string) error
}

// smtpMailer 基于 SMTP 的 Mailer 实现
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer 创建 SMTP Mailer
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// SendVerificationEmail 发送邮箱验证邮件
func (m *smtpMailer) SendVerificationEmail(to, name, verifyURL string) error {
	body := fmt.Sprintf(`<p>%s，您好：</p>
<p>感谢注册 Contest Arena。请在 24 小时内点击以下链接完成邮箱验证：</p>
<p><a href="%s">%s</a></p>
<p>如果这不是您本人的操作，请忽略本邮件。</p>`, name, verifyURL, verifyURL)

	return m.send(to, "【Contest Arena】邮箱验证", body)
}

// SendPasswordResetEmail 发送密码重置邮件
func (m *smtpMailer) SendPasswordResetEmail(to, name, resetURL string) error {
	body := fmt.Sprintf(`<p>%s，您好：</p>
<p>我们收到了您的密码重置请求。请在 1 小时内点击以下链接设置新密码：</p>
<p><a href="%s">%s</a></p>
<p>如果这不是您本人的操作，请忽略本邮件，您的密码不会被更改。</p>`, name, resetURL, resetURL)

	return m.send(to, "【Contest Arena】密码重置", body)
}
