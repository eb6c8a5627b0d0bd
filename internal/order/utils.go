package order

import (
	"print-order-bot/internal/pkg/model"
	"strings"
)

// BuildFileName joins date, format, full name, mention and the original name
// with underscores and replaces every space with an underscore.
func BuildFileName(order model.Order) string {
	name := strings.Join([]string{
		order.PrintDate,
		order.PrintFormat,
		order.Customer.FullName(),
		order.Customer.Mention(),
		order.OriginalFilename,
	}, "_")
	return strings.ReplaceAll(name, " ", "_")
}
