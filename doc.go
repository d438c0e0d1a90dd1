// Package streamless provides an autonomous recurring-billing engine for Go
// applications.
//
// Streamless is designed as a library, not a service. Import it directly into
// your Go application, or run the bundled daemon for a ready-made HTTP
// surface. It provides:
//
//   - Creator-published payment plans with integer pricing and day-granular cycles
//   - Pre-funded subscriber deposits held in a single custody account
//   - Self-rescheduling payment execution: each settlement books the next one
//   - Optional cycle bounds that retire a subscription after N settlements
//   - Queryable per-subscriber settlement history
//   - Pluggable event sinks (in-memory, Redis Streams) for external indexers
//
// # Quick Start
//
// Create an engine with your preferred store, a custodian for the funds it
// manages, and a scheduler to carry its timers:
//
//	import (
//	    "github.com/streamless/streamless"
//	    "github.com/streamless/streamless/scheduler"
//	    "github.com/streamless/streamless/scheduler/local"
//	    "github.com/streamless/streamless/store/memory"
//	    custody "github.com/streamless/streamless/transfer/memory"
//	)
//
//	store := memory.New()
//	funds := custody.New()
//
//	var engine *streamless.Engine
//	driver := local.New(func(ctx context.Context, req scheduler.Request) error {
//	    _, err := engine.ExecutePayment(ctx, req.Args[0], req.Args[1])
//	    return err
//	})
//	defer driver.Close()
//
//	engine = streamless.New(store, funds, driver)
//
// # Core Concepts
//
// Plans are published by creators and priced in the smallest unit of the
// settlement currency:
//
//	err := engine.CreatePlan(ctx, creator, "pro-monthly", 4_900, 30)
//
// Subscribers pre-fund a deposit balance, then enroll. Enrollment books the
// first settlement one full cycle out; from then on the engine re-schedules
// itself after every due execution, bounded or not:
//
//	err := engine.Deposit(ctx, subscriber, 25_000)
//	err  = engine.Subscribe(ctx, subscriber, "pro-monthly", nil)
//
// A settlement that finds the deposit short is not an error. The schedule
// still advances a full cycle and the subscription stays alive, so topping up
// the balance is all a subscriber ever has to do.
//
// All monetary values are unsigned integers. There is no floating point
// anywhere in the engine, on the wire, or in the store.
//
// # Identifiers
//
// Engine-minted identifiers use TypeID for globally unique, type-safe values:
//
//	pay_01h2xcejqtf2nbrexx3vqjhp41  // settlement record
//	req_01h2xcejqtf2nbrexx3vqjhp41  // schedule request
//	evt_01h455vb4pex5vsknk084sn02q  // emitted event
//
// TypeIDs are K-sortable, giving settlement history and event streams a
// natural time ordering.
package streamless
