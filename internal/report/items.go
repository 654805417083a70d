package report

import (
	"fmt"
	"io"
)

// WriteItemsReport renders the item-inventory Markdown report: total record
// count, distinct item count and the full item table.
func WriteItemsReport(w io.Writer, totalRecords int, items []string) error {
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	write("# 銷售品項報告\n\n")
	write("## 統計摘要\n")
	write("- 總銷售記錄數: %d\n", totalRecords)
	write("- 獨特品項數量: %d\n\n", len(items))
	write("## 完整品項清單\n")
	write("| 品項名稱 |\n")
	write("|----------|\n")
	for _, item := range items {
		write("| %s |\n", item)
	}
	return err
}
