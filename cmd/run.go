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
	"os"
	"path/filepath"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/sphflow/sphflow/sim"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the spherical wind simulation",
	Long: `
Runs the time loop: initializes the patch database (fresh or from a
restart checkpoint), then advances the solution writing VTK frames and
checkpoints on their configured intervals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		if err = cfg.Validate(); err != nil {
			return err
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Outdir)).Stop()
		}
		return sim.Run(cfg)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configFromFlags builds the run config: defaults, then the optional YAML
// input file, then the restart checkpoint's config.json, then explicit
// flag overrides, in that order.
func configFromFlags(cmd *cobra.Command) (cfg sim.RunConfig, err error) {
	cfg = sim.DefaultConfig()

	if inputFile, _ := cmd.Flags().GetString("inputFile"); inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return cfg, err
		}
		if cfg, err = sim.ParseConfig(data); err != nil {
			return cfg, err
		}
	}

	if restart, _ := cmd.Flags().GetString("restart"); restart != "" {
		if cfg, err = sim.LoadConfig(filepath.Join(restart, "config.json")); err != nil {
			return
		}
		cfg.Restart = restart
	}

	flags := cmd.Flags()
	if flags.Changed("outdir") {
		cfg.Outdir, _ = flags.GetString("outdir")
	}
	if flags.Changed("tfinal") {
		cfg.Tfinal, _ = flags.GetFloat64("tfinal")
	}
	if flags.Changed("cpi") {
		cfg.Cpi, _ = flags.GetFloat64("cpi")
	}
	if flags.Changed("vtki") {
		cfg.Vtki, _ = flags.GetFloat64("vtki")
	}
	if flags.Changed("rk") {
		cfg.Rk, _ = flags.GetInt("rk")
	}
	if flags.Changed("nr") {
		cfg.Nr, _ = flags.GetInt("nr")
	}
	if flags.Changed("numBlocks") {
		cfg.NumBlocks, _ = flags.GetInt("numBlocks")
	}
	if flags.Changed("outerRadius") {
		cfg.OuterRadius, _ = flags.GetFloat64("outerRadius")
	}
	if flags.Changed("noise") {
		cfg.Noise, _ = flags.GetFloat64("noise")
	}
	if flags.Changed("heatingRate") {
		cfg.HeatingRate, _ = flags.GetFloat64("heatingRate")
	}
	if flags.Changed("coolingRate") {
		cfg.CoolingRate, _ = flags.GetFloat64("coolingRate")
	}
	if flags.Changed("numThreads") {
		cfg.NumThreads, _ = flags.GetInt("numThreads")
	}
	return
}

func init() {
	rootCmd.AddCommand(runCmd)
	def := sim.DefaultConfig()
	runCmd.Flags().StringP("inputFile", "I", "", "YAML file with run options, overridden by explicit flags")
	runCmd.Flags().StringP("outdir", "o", def.Outdir, "directory for VTK frames and checkpoints")
	runCmd.Flags().String("restart", "", "checkpoint directory to resume from")
	runCmd.Flags().Float64("tfinal", def.Tfinal, "target end time for the simulation")
	runCmd.Flags().Float64("cpi", def.Cpi, "checkpoint interval in simulation time (0 disables)")
	runCmd.Flags().Float64("vtki", def.Vtki, "VTK output interval in simulation time (0 disables)")
	runCmd.Flags().Int("rk", def.Rk, "Runge-Kutta order, 1 or 2")
	runCmd.Flags().IntP("nr", "n", def.Nr, "angular resolution and radial-resolution scale")
	runCmd.Flags().IntP("numBlocks", "b", def.NumBlocks, "number of radial blocks")
	runCmd.Flags().Float64("outerRadius", def.OuterRadius, "outer radius of the domain")
	runCmd.Flags().Float64("noise", def.Noise, "amplitude of initial density noise")
	runCmd.Flags().Float64("heatingRate", def.HeatingRate, "thermal heating rate")
	runCmd.Flags().Float64("coolingRate", def.CoolingRate, "Bremsstrahlung cooling rate")
	runCmd.Flags().IntP("numThreads", "t", def.NumThreads, "worker threads for patch updates")
	runCmd.Flags().Bool("profile", false, "write a CPU profile to the output directory")
}
