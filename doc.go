// Package hodlwatch provides the analytics core of a personal bitcoin
// portfolio tracker. It is designed to be local-first and auditable: the
// transaction history is the single source of truth, and every derived
// figure is recomputed from it on demand.
//
// The core functionalities include:
//   - Ledger Management: recording buys, sells, deposits, withdrawals and
//     interest in an immutable, chronological record, persisted as JSONL.
//   - Cost Basis: matching sells against acquisition lots under FIFO, LIFO
//     or HIFO, with realized and unrealized gains and an estimate of the
//     potential tax liability per holding period.
//   - Holdings Classification: a short-term versus long-term split of the
//     position for tax planning.
//   - Portfolio Metrics: point-in-time totals of position, cost basis, fees
//     and mark-to-market valuation.
//   - Performance: reconstruction of the portfolio value history, windowed
//     cumulative returns, CAGR per horizon, maximum drawdown and HODL time.
//
// All calculation functions are pure: they take already-fetched transactions,
// prices and an explicit reference date, perform no I/O, and are safe to
// invoke concurrently. This package serves as the foundational logic for the
// `hw` command-line tool and the HTTP API.
package hodlwatch
