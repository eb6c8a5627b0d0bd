package presentation

import (
	"print-order-bot/internal/catalog"
)

func ConfirmDateMsg(cat *catalog.Catalog, printDate string) string {
	return cat.Format("confirm_date", map[string]string{"print_date": printDate})
}

func OrderSummaryMsg(cat *catalog.Catalog, printFormat, printDate, fileName string) string {
	return cat.Format("order_summary", map[string]string{
		"print_format": orDefault(printFormat, "Не указан"),
		"print_date":   orDefault(printDate, "Не указана"),
		"file_name":    orDefault(fileName, "Не указано"),
	})
}

// OrderErrorMsg nests the upload error template inside the generic order error.
func OrderErrorMsg(cat *catalog.Catalog, err error) string {
	uploadErr := cat.Format("file_upload_error", map[string]string{"error_message": err.Error()})
	return cat.Format("order_error", map[string]string{"error_message": uploadErr})
}
