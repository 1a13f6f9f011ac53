package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type sampleClass struct {
	class                                          string
	verified, outOfScope, writeoff, soldOut, total int64
}

var sampleClasses = []sampleClass{
	{"Building", 2939536813, 2254321, 0, 0, 2962113134},
	{"Computer", 238815549, 0, 0, 0, 238815549},
	{"IT & EF", 1061052835, 843218853, 0, 0, 1904271688},
	{"Intangible", 192459937, 0, 0, 0, 192459937},
	{"Land", 2710767059, 2203011605, 0, 0, 4913778664},
	{"Moulds", 0, 6215477091, 0, 0, 6215477091},
	{"OE", 2245719, 5900869, 31561870, 0, 315143575},
	{"Others", 60335993, 0, 0, 0, 60335993},
	{"P&M", 3733243329, 330582310, 0, 8340261, 4147720800},
	{"Vehicles", 2923456470, 0, 0, 438147686, 3416652356},
}

// SampleAssets returns the per-class verification summary that seeds the
// in-memory backend. Each call returns a fresh slice.
func SampleAssets() []AssetRecord {
	records := make([]AssetRecord, 0, len(sampleClasses))
	for i, s := range sampleClasses {
		records = append(records, AssetRecord{
			AssetID:             fmt.Sprintf("CLS-%03d", i+1),
			AssetName:           s.class,
			AssetClass:          s.class,
			AssetType:           s.class,
			Status:              StatusActive,
			PurchaseValue:       decimal.NewFromInt(s.total),
			VerifiedAmount:      decimal.NewFromInt(s.verified),
			OutOfScopeAmount:    decimal.NewFromInt(s.outOfScope),
			AssetWriteoffAmount: decimal.NewFromInt(s.writeoff),
			SoldOutAmount:       decimal.NewFromInt(s.soldOut),
			GrandTotal:          decimal.NewFromInt(s.total),
		})
	}
	return records
}
