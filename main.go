// qcline-sim simulates a Cutting → Assembly → Inspection line with a bounded
// rework loop. All command handling lives in cmd/.
package main

import (
	"github.com/qcline-sim/qcline-sim/cmd"
)

func main() {
	cmd.Execute()
}
