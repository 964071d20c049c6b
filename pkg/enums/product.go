package enums

import "fmt"

// ProductCategory represents the canonical product categories carried by the shop.
type ProductCategory string

const (
	ProductCategoryPerfume   ProductCategory = "perfume"
	ProductCategoryBodyScrub ProductCategory = "body_scrub"
	ProductCategorySoap      ProductCategory = "soap"
	ProductCategoryDeoStick  ProductCategory = "deo_stick"
)

// ProductCategoryAll is the filter sentinel matching every category. It is
// never stored on a product row.
const ProductCategoryAll = "All"

var validProductCategories = []ProductCategory{
	ProductCategoryPerfume,
	ProductCategoryBodyScrub,
	ProductCategorySoap,
	ProductCategoryDeoStick,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductGender captures the audience a product is marketed to.
type ProductGender string

const (
	ProductGenderMen    ProductGender = "men"
	ProductGenderWomen  ProductGender = "women"
	ProductGenderUnisex ProductGender = "unisex"
)

var validProductGenders = []ProductGender{
	ProductGenderMen,
	ProductGenderWomen,
	ProductGenderUnisex,
}

// String implements fmt.Stringer.
func (g ProductGender) String() string {
	return string(g)
}

// IsValid reports whether the value is a known ProductGender.
func (g ProductGender) IsValid() bool {
	for _, candidate := range validProductGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseProductGender converts raw input into a ProductGender.
func ParseProductGender(value string) (ProductGender, error) {
	for _, candidate := range validProductGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product gender %q", value)
}
