package domain

// Category is the closed set of product category labels. Labels are stored
// as-is in the sales table, so historical rows keep whatever label was
// assigned at ingestion time.
type Category string

const (
	CategoryStaple      Category = "主食"
	CategoryBeverage    Category = "飲品"
	CategoryDessert     Category = "甜點"
	CategorySnack       Category = "零食"
	CategoryMerchandise Category = "商品"
	CategoryOther       Category = "其他"
)

func (c Category) String() string { return string(c) }
