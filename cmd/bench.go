/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/notargets/golaghos/InputParameters"
	"github.com/notargets/golaghos/driver"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time a fixed number of steps, optionally under the CPU profiler",
	Long: `
Runs a fixed number of time steps of the selected problem and reports the rate
of execution in microseconds per zone per step. On linux the retired CPU
instruction count is read from the perf counters when they are available.

golaghos bench -z 16 -n 20 --profile ./prof`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *InputParameters.InputParametersHydro
			b   = &Bench{}
		)
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		if ip, err = processInput(icFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		applyOverrides(cmd, ip)
		b.Steps, _ = cmd.Flags().GetInt("steps")
		b.ProfileDir, _ = cmd.Flags().GetString("profile")
		if err = b.Run(ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		b.Print()
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters, defaults to the sedov problem")
	BenchCmd.Flags().IntP("zones", "z", 0, "zones per direction, overrides the input file")
	BenchCmd.Flags().Float64("finalTime", 0, "final time, overrides the input file")
	BenchCmd.Flags().IntP("steps", "n", 10, "number of time steps to run")
	BenchCmd.Flags().String("profile", "", "directory for a CPU profile, empty disables profiling")
	_ = viper.BindPFlag("profile", BenchCmd.Flags().Lookup("profile"))
}

type Bench struct {
	Steps        int
	ProfileDir   string
	Zones        int
	Elapsed      time.Duration
	Instructions uint64
	Counted      bool // Instructions holds a perf counter reading
}

func (b *Bench) Run(ip *InputParameters.InputParametersHydro) (err error) {
	if b.Steps < 1 {
		return fmt.Errorf("bench needs at least one step, have %d", b.Steps)
	}
	ip.MaxSteps = b.Steps
	if err = ip.Validate(); err != nil {
		return
	}
	h := driver.NewHydro(ip)
	b.Zones = h.Mesh.NE
	if len(b.ProfileDir) != 0 {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(b.ProfileDir), profile.Quiet).Stop()
	}
	start := time.Now()
	b.Instructions, b.Counted, err = countInstructions(h.Solve)
	b.Elapsed = time.Since(start)
	return
}

func (b *Bench) Print() {
	fmt.Printf("%d zones, %d steps in %v\n", b.Zones, b.Steps, b.Elapsed)
	fmt.Printf("Rate of execution = %8.5f us/(zone*step)\n",
		float64(b.Elapsed.Microseconds())/float64(b.Zones*b.Steps))
	if b.Counted {
		fmt.Printf("CPU instructions = %d, %8.1f per zone*step\n",
			b.Instructions, float64(b.Instructions)/float64(b.Zones*b.Steps))
	}
}
