/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: strategies.go
Description: Strategy listing command implementation for tablesynth. Displays
the transform inference strategies in the order the engine tries them.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/tablesynth/pkg/strategies"
	"github.com/spf13/cobra"
)

// ListStrategies lists the available inference strategies in battery order
func ListStrategies(cmd *cobra.Command, args []string) {
	fmt.Println("🧬 tablesynth - Inference Strategies")
	fmt.Println("====================================")
	fmt.Println()
	fmt.Println("Strategies are tried in order for each output column; the first")
	fmt.Println("strategy whose transform reproduces the column wins.")
	fmt.Println()

	for i, s := range strategies.Battery() {
		fmt.Printf("%2d. %s\n", i+1, s.Name())
		fmt.Printf("    %s\n", s.Description())
		fmt.Println()
	}
}
