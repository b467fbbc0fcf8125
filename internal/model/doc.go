// Package model defines shared data types used across the mandi price pipeline.
//
// Conventions:
//   - Prices: decimal.Decimal, rupees per quintal
//   - Dates: AsOfDate and PriceDate are date-only (UTC midnight); RetrievedAt
//     and InsertedAt are full timestamps
//   - IDs: uuid.UUID for curated records and contributors
package model
