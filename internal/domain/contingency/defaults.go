package contingency

import "github.com/google/uuid"

// Defaults returns the standard contingency set for a new purchase
// agreement, with fresh IDs.
func Defaults() []Contingency {
	list := []Contingency{
		{
			Name:        "Title Review Period",
			Type:        TypeDaysFromMutual,
			Days:        IntPtr(5),
			Description: "Review title report and raise any objections",
		},
		{
			Name:        "Inspection Contingency",
			Type:        TypeDaysFromMutual,
			Days:        IntPtr(10),
			Description: "Period to complete property inspection and review findings",
		},
		{
			Name:        "Financing Contingency Waiver Cannot Be Compelled",
			Type:        TypeDaysFromMutual,
			Days:        IntPtr(21),
			Description: "Period to secure financing approval and complete underwriting",
		},
		{
			Name:        "Information Verification Period",
			Type:        TypeDaysFromMutual,
			Days:        IntPtr(10),
			Description: "Period to verify all transaction information",
		},
		{
			Name:        "Funds due to escrow",
			Type:        TypeDaysBeforeClosing,
			Days:        IntPtr(1),
			Description: "All funds must be received by escrow",
		},
	}
	for i := range list {
		list[i].ID = uuid.NewString()
		list[i].Status = StatusNotStarted
		list[i].Order = i
	}
	return list
}
