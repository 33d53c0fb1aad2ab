package services

import (
	"fmt"
	"sort"

	"zillow-scraper/models"
	"zillow-scraper/utils"
)

// InsightReport holds the computed summary over a run's canonical records.
type InsightReport struct {
	TotalListings  int
	PricedListings int
	AveragePrice   float64
	MinPrice       int
	MaxPrice       int
	AverageSqft    float64
	TotalPhotos    int
	ListingsByCity map[string]int
}

// InsightService computes and prints run-level statistics.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the report. Records with a null price or sqft are
// counted but excluded from the respective aggregates.
func (s *InsightService) Generate(listings []models.Listing) *InsightReport {
	report := &InsightReport{
		TotalListings:  len(listings),
		ListingsByCity: make(map[string]int),
	}

	var priceSum, sqftSum, sqftCount int
	for _, l := range listings {
		if p := l.CoreAttributes.PriceMonthly; p != nil {
			report.PricedListings++
			priceSum += *p
			if report.MinPrice == 0 || *p < report.MinPrice {
				report.MinPrice = *p
			}
			if *p > report.MaxPrice {
				report.MaxPrice = *p
			}
		}
		if sq := l.CoreAttributes.Sqft; sq != nil {
			sqftSum += *sq
			sqftCount++
		}
		if city := l.CoreAttributes.AddressBlobs.City; city != nil {
			report.ListingsByCity[*city]++
		}
		report.TotalPhotos += len(l.MediaIndex.HighResPhotos)
	}

	if report.PricedListings > 0 {
		report.AveragePrice = float64(priceSum) / float64(report.PricedListings)
	}
	if sqftCount > 0 {
		report.AverageSqft = float64(sqftSum) / float64(sqftCount)
	}
	return report
}

// Print writes the report to stdout.
func (s *InsightService) Print(r *InsightReport) {
	fmt.Println()
	fmt.Println("===== Run summary =====")
	fmt.Printf("  Listings scraped : %d\n", r.TotalListings)
	fmt.Printf("  With price       : %d\n", r.PricedListings)
	if r.PricedListings > 0 {
		fmt.Printf("  Monthly price    : avg $%.0f (min $%d, max $%d)\n",
			r.AveragePrice, r.MinPrice, r.MaxPrice)
	}
	if r.AverageSqft > 0 {
		fmt.Printf("  Average sqft     : %.0f\n", r.AverageSqft)
	}
	fmt.Printf("  Photos indexed   : %d\n", r.TotalPhotos)

	if len(r.ListingsByCity) > 0 {
		cities := make([]string, 0, len(r.ListingsByCity))
		for c := range r.ListingsByCity {
			cities = append(cities, c)
		}
		sort.Strings(cities)
		fmt.Println("  Listings by city:")
		for _, c := range cities {
			fmt.Printf("    %-20s %d\n", c, r.ListingsByCity[c])
		}
	}
	fmt.Println()
}
