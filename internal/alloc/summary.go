package alloc

import (
	"strings"

	"paycalc/internal/core"
)

// Summarize rolls recommendations up per vendor: doc numbers comma-joined
// in allocation order, payments summed. Vendors appear in the order they
// were first funded. Returns nil when there is nothing to summarize.
func Summarize(recs []core.Recommendation) []core.VendorSummary {
	if len(recs) == 0 {
		return nil
	}

	index := make(map[string]int)
	docs := make(map[string][]string)
	var summaries []core.VendorSummary

	for _, rec := range recs {
		i, ok := index[rec.Vendor]
		if !ok {
			i = len(summaries)
			index[rec.Vendor] = i
			summaries = append(summaries, core.VendorSummary{Vendor: rec.Vendor})
		}
		docs[rec.Vendor] = append(docs[rec.Vendor], rec.DocNum)
		summaries[i].Total.Cents += rec.Payment.Cents
	}
	for i := range summaries {
		summaries[i].DocNums = strings.Join(docs[summaries[i].Vendor], ", ")
	}
	return summaries
}
