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

	"github.com/notargets/golaghos/InputParameters"
	"github.com/notargets/golaghos/driver"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const exampleFile = `
########################################
Title: "Sedov Blast"
Problem: sedov # Can be "taylor-green"
Dim: 2
Zones: 8
OrderV: 2
OrderE: 1
CFL: 0.5
FinalTime: 0.6
Viscosity: true
########################################
`

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a Lagrangian hydrodynamics problem to its final time",
	Long: `
Runs one of the built in problems (sedov, taylor-green) on a uniform box mesh,
with parameters read from a YAML input file.

golaghos run -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *InputParameters.InputParametersHydro
		)
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		if ip, err = processInput(icFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		applyOverrides(cmd, ip)
		if err = RunHydro(ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Problem\n\t- Zones\n\t- OrderV, OrderE")
	RunCmd.Flags().IntP("zones", "z", 0, "zones per direction, overrides the input file")
	RunCmd.Flags().Float64("finalTime", 0, "final time, overrides the input file")
}

// processInput reads and validates the input file, an empty name gives the defaults
func processInput(icFile string) (ip *InputParameters.InputParametersHydro, err error) {
	if len(icFile) == 0 {
		ip = InputParameters.NewInputParametersHydro()
		return
	}
	var data []byte
	if data, err = os.ReadFile(icFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersHydro{}
	if err = ip.Parse(data); err != nil {
		return
	}
	return
}

// applyOverrides folds command line flags and environment settings into ip
func applyOverrides(cmd *cobra.Command, ip *InputParameters.InputParametersHydro) {
	if z, _ := cmd.Flags().GetInt("zones"); z > 0 {
		ip.Zones = z
	}
	if ft, _ := cmd.Flags().GetFloat64("finalTime"); ft > 0 {
		ip.FinalTime = ft
	}
	if viper.IsSet("procLimit") && viper.GetInt("procLimit") > 0 {
		ip.ProcLimit = viper.GetInt("procLimit")
	}
	if viper.GetBool("verbose") {
		ip.Verbose = true
	}
}

func RunHydro(ip *InputParameters.InputParametersHydro) (err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	ip.Print()
	h := driver.NewHydro(ip)
	if err = h.Solve(); err != nil {
		return
	}
	ke, ie := h.Energies()
	fmt.Printf("Final time = %8.5f after %d steps, kinetic = %12.6e, internal = %12.6e\n",
		h.Time, h.Steps, ke, ie)
	return
}
