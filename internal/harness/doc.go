// Package harness replays scripted action sequences against a state store.
//
// A scenario is a YAML file:
//
//	name: add_twice
//	description: Adding the same product twice merges into one line
//	storage:            # optional persisted keys seeded before load
//	  currentView: home
//	steps:
//	  - action: add_to_cart
//	    args: {id: 5, name: Scarf, price: 10}
//	  - action: add_to_cart
//	    args: {id: 5, name: Scarf, price: 10}
//	expect:
//	  view: cart
//	  cart: [{id: 5, quantity: 2}]
//	  stored:
//	    currentView: cart
//
// Each run uses fresh in-memory storage, a DeterministicClock for sequence
// numbers and a fixed wall clock for session expiry, so results are
// reproducible and can be compared against golden files.
//
// Unknown YAML fields and unknown step arguments are rejected when the
// scenario is parsed, before anything runs.
package harness
