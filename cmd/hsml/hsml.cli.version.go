package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func (a *app) versionCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: HelpVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVersion(format)
		},
	}
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, OutputFormatText, HelpFlagFormat)
	return cmd
}

func (a *app) runVersion(format string) error {
	if format != OutputFormatText && format != OutputFormatJSON {
		return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, fmt.Errorf("%q", format))
	}

	v := getVersionInfo()
	if format == OutputFormatJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}
	fmt.Fprintf(a.stdout, VersionTextTemplate+FmtNewline, v.Version, v.Commit, v.Branch, v.BuildTime, v.GoVersion)
	return nil
}

// getVersionInfo reads versions.yaml from the working directory or one of
// its parents, falling back to unknown values.
func getVersionInfo() *versionOutput {
	v := &versionOutput{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	paths := []string{
		VersionsFileName,
		filepath.Join("..", VersionsFileName),
		filepath.Join("..", "..", VersionsFileName),
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		if vy.Project.Version != "" {
			v.Version = vy.Project.Version
		}
		if vy.Git.Commit != "" {
			v.Commit = vy.Git.Commit
		}
		if vy.Git.Branch != "" {
			v.Branch = vy.Git.Branch
		}
		if vy.Build.Time != "" {
			v.BuildTime = vy.Build.Time
		}
		if vy.Build.GoVersion != "" {
			v.GoVersion = vy.Build.GoVersion
		}
		break
	}
	return v
}
