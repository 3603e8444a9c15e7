package data

// OilPrices is the payload served by the price endpoint and stored in the cache.
// JSON field names are part of the cache format and must not change.
type OilPrices struct {
	CurrentKec      Optional[OilPrice] `json:"CurrentKec"`
	CurrentButane   Optional[OilPrice] `json:"CurrentButane"`
	PreviousButane  Optional[OilPrice] `json:"PreviousButane"`
	CurrentPropane  Optional[OilPrice] `json:"CurrentPropane"`
	PreviousPropane Optional[OilPrice] `json:"PreviousPropane"`
	Error           Optional[string]   `json:"Error"`
}

// OilPrice is one quoted reading, both values taken verbatim from the page.
type OilPrice struct {
	Price string `json:"Price"`
	Date  string `json:"Date"`
}

// Complete reports whether every price pair is present.
func (p OilPrices) Complete() bool {
	return p.CurrentKec.IsPresent() &&
		p.CurrentButane.IsPresent() &&
		p.PreviousButane.IsPresent() &&
		p.CurrentPropane.IsPresent() &&
		p.PreviousPropane.IsPresent()
}

// Series returns the present pairs keyed by their history series name.
func (p OilPrices) Series() map[string]OilPrice {
	out := make(map[string]OilPrice, 5)
	for name, v := range map[string]Optional[OilPrice]{
		"current_kec":      p.CurrentKec,
		"current_butane":   p.CurrentButane,
		"previous_butane":  p.PreviousButane,
		"current_propane":  p.CurrentPropane,
		"previous_propane": p.PreviousPropane,
	} {
		if op, ok := v.Get(); ok {
			out[name] = op
		}
	}
	return out
}
