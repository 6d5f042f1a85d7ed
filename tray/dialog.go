package tray

import (
	"fmt"

	"muteonloc/notify"
)

func promptScript(title, message, def string) string {
	return fmt.Sprintf("text returned of (display dialog %s default answer %s with title %s)",
		notify.Quote(message), notify.Quote(def), notify.Quote(title))
}

func alertScript(title, message string) string {
	return fmt.Sprintf("display alert %s message %s as warning",
		notify.Quote(title), notify.Quote(message))
}
