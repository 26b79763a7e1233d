package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/internal/logger"
)

// MailSenderService gửi email giao dịch (OTP, chào mừng, đặt lại mật khẩu) qua SMTP
type MailSenderService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailSenderService tạo mới MailSenderService từ cấu hình server
func NewMailSenderService() (*MailSenderService, error) {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil {
		return nil, fmt.Errorf("failed to create mail sender service: %v", common.ErrConfigNotInitialized)
	}

	return &MailSenderService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}, nil
}

// send gửi một email HTML tới recipient
func (s *MailSenderService) send(ctx context.Context, recipient, subject, htmlContent string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
			"recipient": recipient,
			"subject":   subject,
		}).Error("❌ Mail: gửi email thất bại")
		return common.NewError(common.ErrCodeMail, common.MsgMailSendError, common.StatusBadGateway, err)
	}

	return nil
}

// SendVerificationOTP gửi mã OTP xác thực email cho tài khoản mới đăng ký
func (s *MailSenderService) SendVerificationOTP(ctx context.Context, recipient, name, otp string) error {
	htmlContent := fmt.Sprintf(`
		<p>Chào %s,</p>
		<p>Cảm ơn bạn đã đăng ký. Mã xác thực email của bạn là:</p>
		<h1 style="letter-spacing:5px;">%s</h1>
		<p>Mã có hiệu lực trong 1 giờ.</p>`, name, otp)
	return s.send(ctx, recipient, "Mã xác thực email", htmlContent)
}

// SendWelcome gửi email chào mừng sau khi xác thực email thành công
func (s *MailSenderService) SendWelcome(ctx context.Context, recipient, name string) error {
	htmlContent := fmt.Sprintf(`
		<p>Chào mừng %s!</p>
		<p>Email của bạn đã được xác thực. Cảm ơn bạn đã lựa chọn chúng tôi.</p>`, name)
	return s.send(ctx, recipient, "Chào mừng bạn", htmlContent)
}

// SendPasswordResetLink gửi link đặt lại mật khẩu kèm token
func (s *MailSenderService) SendPasswordResetLink(ctx context.Context, recipient, resetURL string) error {
	htmlContent := fmt.Sprintf(`
		<p>Bạn vừa yêu cầu đặt lại mật khẩu.</p>
		<p><a href="%s" style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Đặt lại mật khẩu</a></p>
		<p>Nếu không phải bạn, hãy bỏ qua email này. Link có hiệu lực trong 1 giờ.</p>`, resetURL)
	return s.send(ctx, recipient, "Đặt lại mật khẩu", htmlContent)
}

// SendPasswordChanged thông báo mật khẩu đã được thay đổi thành công
func (s *MailSenderService) SendPasswordChanged(ctx context.Context, recipient string) error {
	htmlContent := `
		<p>Mật khẩu của bạn vừa được thay đổi thành công.</p>
		<p>Bây giờ bạn có thể đăng nhập bằng mật khẩu mới.</p>`
	return s.send(ctx, recipient, "Mật khẩu đã được thay đổi", htmlContent)
}
