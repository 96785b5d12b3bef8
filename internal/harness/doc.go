// Package harness runs scripted clock program scenarios against an
// in-memory ledger.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	variant: timestamp            # or clock (default)
//	steps:
//	  - set_timestamp: 100
//	  - set_clock:
//	      slot: 1
//	      unix_timestamp: 1700000000
//	  - set_raw: "0102"           # hex payload, sent as-is
//	    expect: INVALID_PAYLOAD
//	  - set_timestamp: 5
//	    storage: 11111111111111111111111111111112
//	    expect: ADDRESS_MISMATCH
//	assertions:
//	  - type: account_exists
//	    exists: true
//	  - type: timestamp
//	    value: 100
//
// Each step submits one signed transaction. Expect is "ok" (the default) or
// the error code the step must fail with: a program code such as
// INVALID_PAYLOAD, or a ledger code such as PROGRAM_PANICKED when no program
// code is attached.
//
// # Assertion Types
//
//   - account_exists: the storage account exists (or not)
//   - timestamp: the stored value decodes to the given u64
//   - clock: the stored value decodes to the given clock record
//   - data_len: the storage account holds exactly len bytes
//
// # Deterministic Testing
//
// The payer comes from a fixed pubkey.KeySequence and every run starts from an
// empty ledger, so the canonical TraceSnapshot is stable across runs.
// Signatures, addresses and program logs are left out of golden traces.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/timestamp.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
