package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

var centsFactor = decimal.NewFromInt(100)

// Line is a ledger row decorated with its catalog item when one is linked.
type Line struct {
	Sale
	Item *catalog.Item `json:"item,omitempty"`
}

// CartGroup is a contiguous run of lines sharing a cartId: the visual unit
// of one settlement. Independent sales (nil cartId) each form their own
// single-line group.
type CartGroup struct {
	CartID *id.ID `json:"cartId,omitempty"`
	Lines  []Line `json:"lines"`
}

// VATStat is the total for one (VAT rate, payment method) pair.
type VATStat struct {
	TVA         types.VATRate `json:"tva"`
	PaymentType PaymentType   `json:"paymentType"`
	Total       types.Money   `json:"total"`
}

// PaymentStat is the total for one payment method.
type PaymentStat struct {
	PaymentType PaymentType `json:"paymentType"`
	Total       types.Money `json:"total"`
}

// DayReport is the full view of one day of sales. Soft-deleted lines are
// listed (for struck-through display) but excluded from every aggregate.
type DayReport struct {
	Carts          []CartGroup   `json:"carts"`
	TVA            []VATStat     `json:"tva"`
	PaymentMethods []PaymentStat `json:"paymentMethods"`
	SalesCount     int           `json:"salesCount"`
	Total          types.Money   `json:"total"`
}

// BuildDayReport groups rows (already ordered by created, cartId, title)
// into settlement runs and accumulates the day aggregates in one scan.
// items must contain every item referenced by a row; a missing item is a
// data-integrity violation and fails the whole report.
func BuildDayReport(rows []Sale, items map[id.ID]*catalog.Item) (DayReport, error) {
	report := DayReport{
		Carts:          []CartGroup{},
		TVA:            []VATStat{},
		PaymentMethods: []PaymentStat{},
		Total:          types.Zero(),
	}

	vatCents := map[[2]string]int64{}
	payCents := map[PaymentType]int64{}
	var totalCents int64

	var current *CartGroup
	for _, row := range rows {
		line := Line{Sale: row}
		if row.ItemID != nil {
			item, ok := items[*row.ItemID]
			if !ok {
				return DayReport{}, apperror.NewDataIntegrity("sale references missing item").
					WithDetail("saleId", row.ID).
					WithDetail("itemId", *row.ItemID)
			}
			line.Item = item
		}

		// A run ends when cartId changes; a nil cartId on either side always
		// forces a boundary, so independent sales never coalesce.
		boundary := current == nil ||
			current.CartID == nil || row.CartID == nil ||
			*current.CartID != *row.CartID
		if boundary {
			report.Carts = append(report.Carts, CartGroup{CartID: row.CartID})
			current = &report.Carts[len(report.Carts)-1]
		}
		current.Lines = append(current.Lines, line)

		if row.Deleted {
			continue
		}

		cents := moneyCents(row.Price)
		vatCents[[2]string{string(row.TVA), string(row.PaymentType)}] += cents
		payCents[row.PaymentType] += cents
		totalCents += cents
		report.SalesCount += row.Quantity
	}

	for key, cents := range vatCents {
		report.TVA = append(report.TVA, VATStat{
			TVA:         types.VATRate(key[0]),
			PaymentType: PaymentType(key[1]),
			Total:       centsMoney(cents),
		})
	}
	sort.Slice(report.TVA, func(i, j int) bool {
		if report.TVA[i].TVA != report.TVA[j].TVA {
			return report.TVA[i].TVA < report.TVA[j].TVA
		}
		return report.TVA[i].PaymentType < report.TVA[j].PaymentType
	})

	for payment, cents := range payCents {
		report.PaymentMethods = append(report.PaymentMethods, PaymentStat{
			PaymentType: payment,
			Total:       centsMoney(cents),
		})
	}
	sort.Slice(report.PaymentMethods, func(i, j int) bool {
		return report.PaymentMethods[i].PaymentType < report.PaymentMethods[j].PaymentType
	})

	report.Total = centsMoney(totalCents)
	return report, nil
}

// DayStat is the roll-up for one day inside a month.
type DayStat struct {
	Date  time.Time   `json:"date"`
	Count int         `json:"count"`
	Total types.Money `json:"total"`
}

// TypeStat is the roll-up for one item type inside a month.
type TypeStat struct {
	ItemType catalog.ItemType `json:"itemType"`
	Count    int              `json:"count"`
	Total    types.Money      `json:"total"`
}

// MonthReport is the pre-aggregated month view; no line lists at this
// granularity.
type MonthReport struct {
	SalesByDay []DayStat  `json:"salesByDay"`
	Stats      []VATStat  `json:"stats"`
	ItemTypes  []TypeStat `json:"itemTypes"`
}

// BuildMonthReport rolls a month of rows up by day, (VAT, payment) and item
// type. Soft-deleted rows are excluded entirely. Days sort most-recent-first.
func BuildMonthReport(rows []Sale) MonthReport {
	report := MonthReport{
		SalesByDay: []DayStat{},
		Stats:      []VATStat{},
		ItemTypes:  []TypeStat{},
	}

	type dayAgg struct {
		count int
		cents int64
	}
	type typeAgg struct {
		count int
		cents int64
	}
	days := map[time.Time]*dayAgg{}
	vatCents := map[[2]string]int64{}
	typeStats := map[catalog.ItemType]*typeAgg{}

	for _, row := range rows {
		if row.Deleted {
			continue
		}

		day := truncateToDay(row.Created)
		if days[day] == nil {
			days[day] = &dayAgg{}
		}
		cents := moneyCents(row.Price)
		days[day].count += row.Quantity
		days[day].cents += cents

		vatCents[[2]string{string(row.TVA), string(row.PaymentType)}] += cents

		if typeStats[row.ItemType] == nil {
			typeStats[row.ItemType] = &typeAgg{}
		}
		typeStats[row.ItemType].count += row.Quantity
		typeStats[row.ItemType].cents += cents
	}

	for day, agg := range days {
		report.SalesByDay = append(report.SalesByDay, DayStat{
			Date:  day,
			Count: agg.count,
			Total: centsMoney(agg.cents),
		})
	}
	sort.Slice(report.SalesByDay, func(i, j int) bool {
		return report.SalesByDay[i].Date.After(report.SalesByDay[j].Date)
	})

	for key, cents := range vatCents {
		report.Stats = append(report.Stats, VATStat{
			TVA:         types.VATRate(key[0]),
			PaymentType: PaymentType(key[1]),
			Total:       centsMoney(cents),
		})
	}
	sort.Slice(report.Stats, func(i, j int) bool {
		if report.Stats[i].TVA != report.Stats[j].TVA {
			return report.Stats[i].TVA < report.Stats[j].TVA
		}
		return report.Stats[i].PaymentType < report.Stats[j].PaymentType
	})

	for itemType, agg := range typeStats {
		report.ItemTypes = append(report.ItemTypes, TypeStat{
			ItemType: itemType,
			Count:    agg.count,
			Total:    centsMoney(agg.cents),
		})
	}
	sort.Slice(report.ItemTypes, func(i, j int) bool {
		return report.ItemTypes[i].ItemType < report.ItemTypes[j].ItemType
	})

	return report
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func moneyCents(m types.Money) int64 {
	return m.Mul(centsFactor).Round(0).IntPart()
}

func centsMoney(cents int64) types.Money {
	return decimal.New(cents, -2)
}
