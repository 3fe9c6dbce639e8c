package piimask

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCICmd() *cobra.Command {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}

	var (
		provider string
		target   string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template that fails when fixtures contain personal data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, content, err := ciTemplate(provider, target)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	initCmd.Flags().StringVar(&target, "files", "testdata/*.json", "files to analyze")
	_ = initCmd.MarkFlagRequired("provider")
	ci.AddCommand(initCmd)
	return ci
}

func ciTemplate(provider, files string) (string, string, error) {
	run := "go install github.com/redactyl/piimask@latest\n"
	analyze := "piimask analyze --sarif --fail-on medium " + files + " | tee piimask.sarif"
	switch provider {
	case "github":
		return ".github/workflows/piimask.yml", `name: piimask
on: [push, pull_request]
jobs:
  pii:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25'
      - run: ` + run + `      - run: ` + analyze + `
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: piimask.sarif
`, nil
	case "gitlab":
		return ".gitlab-ci.yml", `stages: [pii]
pii:
  stage: pii
  image: golang:1.25
  script:
    - ` + run + `    - ` + analyze + `
  artifacts:
    when: always
    paths:
      - piimask.sarif
`, nil
	case "bitbucket":
		return "bitbucket-pipelines.yml", `pipelines:
  default:
    - step:
        name: piimask
        image: golang:1.25
        script:
          - ` + run + `          - ` + analyze + `
        artifacts:
          - piimask.sarif
`, nil
	case "azure":
		return "azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    ` + run + `    ` + analyze + `
  displayName: 'piimask'
- publish: piimask.sarif
  artifact: piimask
  condition: succeededOrFailed()
`, nil
	}
	return "", "", fmt.Errorf("unknown --provider %q. Supported: github, gitlab, bitbucket, azure", provider)
}
