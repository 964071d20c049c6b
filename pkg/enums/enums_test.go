package enums

import "testing"

func TestParseProductCategory(t *testing.T) {
	category, err := ParseProductCategory("soap")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if category != ProductCategorySoap {
		t.Fatalf("unexpected category %s", category)
	}

	if _, err := ParseProductCategory("candles"); err == nil {
		t.Fatal("expected error for unknown category")
	}

	// The filter sentinel is not a stored category.
	if _, err := ParseProductCategory(ProductCategoryAll); err == nil {
		t.Fatal("expected error for the All sentinel")
	}
}

func TestProductCategoryIsValid(t *testing.T) {
	if !ProductCategoryPerfume.IsValid() {
		t.Fatal("expected perfume to be valid")
	}
	if ProductCategory("candles").IsValid() {
		t.Fatal("expected unknown category to be invalid")
	}
}

func TestParseCheckoutState(t *testing.T) {
	state, err := ParseCheckoutState("reviewing")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if state != CheckoutStateReviewing {
		t.Fatalf("unexpected state %s", state)
	}

	if _, err := ParseCheckoutState("browsing"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("new")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != OrderStatusNew {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("cancelled"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseProductGender(t *testing.T) {
	gender, err := ParseProductGender("unisex")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gender != ProductGenderUnisex {
		t.Fatalf("unexpected gender %s", gender)
	}
}
