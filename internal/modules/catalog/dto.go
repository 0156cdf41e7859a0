package catalog

// ReplacePeriodRequest declares one whole-day availability period. Dates are
// inclusive, formatted 2006-01-02 in the listing's timezone. Storing it
// supersedes every previously declared period its range intersects.
type ReplacePeriodRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Status    string `json:"status" binding:"required"` // available | blocked
	Reason    string `json:"reason"`
}

type ListListingsQuery struct {
	Kind       string `form:"kind"`
	ProviderID int64  `form:"provider_id"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
