// Package reconciliation contains the order reconciliation core: the value
// objects, ports and pure functions used to decide which records from two
// independently operated order sources represent the same real-world order.
//
// The package follows the Ports & Adapters pattern: OrderSource and
// CommercePlatform are defined here, and concrete adapters (WeareCloud,
// JumpSeller) live in the infrastructure layer. Everything else in this
// package is pure and side-effect free: normalization, match scoring and
// synchronized-order construction never perform I/O and never panic on
// missing or malformed input.
package reconciliation
