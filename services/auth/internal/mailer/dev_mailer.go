package mailer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/diagnosis/jobiq-care/pkg/logger"
)

// DevSender prints messages instead of delivering them, so codes are
// visible locally without a mail server.
type DevSender struct {
	out io.Writer
}

func NewDevSender() *DevSender {
	return &DevSender{out: os.Stdout}
}

func (d *DevSender) Send(ctx context.Context, msg Message) error {
	logger.InfoContext(ctx, "📧 [DEV MAIL]",
		"to", msg.ToEmail,
		"subject", msg.Subject,
	)

	fmt.Fprintf(d.out, "\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s\n"+
		"Subject: %s\n"+
		"\n"+
		"%s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		msg.ToEmail, msg.Subject, msg.Text)

	return nil
}
