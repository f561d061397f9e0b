package restclient

import (
	"testing"

	"github.com/gamevault/storefront/pkg/cart"
)

func TestNormalizeListShapes(test *testing.T) {
	test.Parallel()

	testCases := []struct {
		name      string
		raw       string
		wantItems int
		wantError bool
	}{
		{name: "bare array", raw: `[{"id":"a"},{"id":"b"}]`, wantItems: 2},
		{name: "data envelope", raw: `{"data":[{"id":"a"}]}`, wantItems: 1},
		{name: "items envelope", raw: `{"items":[{"id":"a"}]}`, wantItems: 1},
		{name: "empty bare array", raw: `[]`, wantItems: 0},
		{name: "null body", raw: `null`, wantItems: 0},
		{name: "empty body", raw: ``, wantItems: 0},
		{name: "envelope with null data", raw: `{"data":null}`, wantItems: 0},
		{name: "envelope without list keys", raw: `{"status":"ok"}`, wantItems: 0},
		{name: "not json", raw: `<html>`, wantError: true},
		{name: "envelope data not a list", raw: `{"data":"nope"}`, wantError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			var items []cart.LineItem
			err := normalizeList([]byte(testCase.raw), &items)
			if testCase.wantError {
				if err == nil {
					test.Fatalf("expected decode error")
				}
				return
			}
			if err != nil {
				test.Fatalf("unexpected error: %v", err)
			}
			if len(items) != testCase.wantItems {
				test.Fatalf("expected %d items, got %d", testCase.wantItems, len(items))
			}
		})
	}
}

func TestNormalizeListPrefersDataOverItems(test *testing.T) {
	test.Parallel()
	var items []cart.LineItem
	raw := `{"data":[{"id":"from-data"}],"items":[{"id":"x"},{"id":"y"}]}`
	if err := normalizeList([]byte(raw), &items); err != nil {
		test.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "from-data" {
		test.Fatalf("expected the data key to win, got %+v", items)
	}
}
