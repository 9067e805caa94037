// Package harness runs query translation scenarios.
//
// A scenario is a YAML file naming one query and what translating it must
// produce: the command, or the error kind, position and message, and
// optionally lint warnings.
//
// # Scenario Format
//
//	name: nested_parentheses
//	description: "Parentheses regroup; each level folds left to right"
//	query: select a, c from b where a>20 and (c>3 or b>300)
//	expect:
//	  command: db.b.find({$and:[{a:{$gt:20}},{$or:[{c:{$gt:3}},{b:{$gt:300}}]}]}).project({a:1,c:1})
//	  warnings: []
//
// A failing translation is expected with an error block. Every field of the
// block is optional:
//
//	expect:
//	  error:
//	    kind: grammar        # lexical | grammar
//	    position: 7          # rune offset in query
//	    contains: "after SELECT"
//
// # Checks
//
//   - command: exact match of the emitted command
//   - error: the run fails with the given kind, position and message text
//   - warnings: every listed string appears in some plan.Validate warning;
//     an explicit empty list requires a clean plan
//
// # Golden Snapshots
//
// RunWithGolden compares a JSON snapshot of the whole run (tokens, plan,
// command, error, warnings) against testdata/golden/<name>.golden. The CLI
// test command keeps the same snapshots next to the scenario files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/star.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
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
