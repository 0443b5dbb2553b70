// Package harness runs upgrade scenarios against a directory of schemas.
//
// A scenario is a YAML file naming a schemas directory, the version an input
// block state was written at, the input state and the state expected after
// upgrading to the latest version:
//
//	name: log_to_oak_log
//	description: logs lose the deprecated flag and become oak logs
//	schemas: ../schemas
//	from: 1.10.0.0
//	input:
//	  name: minecraft:log
//	  states:
//	    direction: {type: int, value: 0}
//	expect:
//	  name: minecraft:oak_log
//	  states:
//	    pillar_axis: {type: string, value: "y"}
//
// Run records every intermediate state, one step per applied schema. The
// resulting trace is rendered by Snapshot for golden-file comparison; golden
// files are regenerated with
//
//	go test ./internal/harness -update
//
// or with the CLI's test --update.
package harness
