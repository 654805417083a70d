// Package category maps product names onto the fixed category labels used by
// the sales table and the reporting layer.
package category

import (
	"strings"

	"github.com/taiwanway/sales-tracker/internal/domain"
)

// rule maps a keyword family onto one label. Rules are tried in order and the
// first match wins, so a name that matches several families (e.g. "奶茶蛋糕")
// gets the earliest listed label.
type rule struct {
	keywords []string
	label    domain.Category
}

var rules = []rule{
	{[]string{"noodle", "麵"}, domain.CategoryStaple},
	{[]string{"rice", "飯"}, domain.CategoryStaple},
	{[]string{"tea", "茶"}, domain.CategoryBeverage},
	{[]string{"coffee", "咖啡"}, domain.CategoryBeverage},
	{[]string{"cake", "蛋糕"}, domain.CategoryDessert},
	{[]string{"cookie", "餅乾"}, domain.CategorySnack},
	{[]string{"mug", "杯"}, domain.CategoryMerchandise},
}

// Classify returns the category for a product name. It never fails; names
// matching no keyword family are 其他.
func Classify(name string) domain.Category {
	lower := strings.ToLower(name)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.label
			}
		}
	}
	return domain.CategoryOther
}
