package scenario

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/pages"
)

// ErrNoProduct means none of the search terms found anything to buy.
var ErrNoProduct = errors.New("no product found")

// SearchAndAddProduct searches each term in turn and adds the first result
// of the first term that finds anything. It returns that term.
func SearchAndAddProduct(site *pages.Site, terms ...string) (string, error) {
	log := site.Base.Logger()
	for _, term := range terms {
		if err := site.Header.Search(term); err != nil {
			return "", err
		}
		found, err := site.Search.HasResults()
		if err != nil {
			return "", err
		}
		if !found {
			log.Info("no products found, trying next term", zap.String("term", term))
			if err := site.Home.Open(); err != nil {
				return "", err
			}
			continue
		}
		if err := addFirstResult(site); err != nil {
			return "", fmt.Errorf("add %q: %w", term, err)
		}
		log.Info("product added", zap.String("term", term))
		return term, nil
	}
	return "", fmt.Errorf("%w for %s", ErrNoProduct, strings.Join(terms, ", "))
}

func addFirstResult(site *pages.Site) error {
	if err := site.Search.OpenFirst(); err != nil {
		return err
	}
	if err := site.Product.AssertOnProductPage(); err != nil {
		return err
	}
	return site.Product.AddToCart()
}
