// Package types provides type definitions for structured data used throughout the caución quote workflow.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PolicyHolder is the insured party record returned by the registry service.
// It is replaced wholesale on every lookup and never merged.
type PolicyHolder struct {
	ID           string  `json:"id"`
	CUIT         string  `json:"cuit"`
	Name         string  `json:"name"`
	Province     string  `json:"province"`
	ProvinceCode string  `json:"provinceCode"`
	ItemA        float64 `json:"itemA"`
	ItemB        float64 `json:"itemB"`
	ItemC        float64 `json:"itemC"`
	ItemD        float64 `json:"itemD"`
	ItemE        float64 `json:"itemE"`
}

// Clone returns a copy of the holder, or nil for a nil receiver.
func (h *PolicyHolder) Clone() *PolicyHolder {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}
