package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"resume-matcher/internal/analyses"
	"resume-matcher/internal/bootstrap"
	"resume-matcher/internal/shared/config"
)

func main() {
	resumePath := pflag.StringP("resume", "r", "", "Path to resume text file")
	jdPath := pflag.StringP("jd", "j", "", "Path to job description text file")
	outPath := pflag.StringP("out", "o", "", "Path to write JSON output (default stdout)")
	showPrompt := pflag.Bool("prompt", false, "Print the rendered prompt instead of calling providers")
	pflag.Parse()

	if strings.TrimSpace(*resumePath) == "" || strings.TrimSpace(*jdPath) == "" {
		exitErr("--resume and --jd are required")
	}

	resume, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	jobDescription, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}

	if *showPrompt {
		fmt.Println(analyses.BuildPrompt(string(resume), string(jobDescription)))
		return
	}

	ctx := context.Background()
	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		exitErr(err.Error())
	}

	out, err := app.AnalysisService.Analyze(ctx, analyses.Request{
		Resume:         string(resume),
		JobDescription: string(jobDescription),
	})
	if err != nil {
		exitErr(err.Error())
	}

	payload, err := json.MarshalIndent(out.Result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("marshal result: %v", err))
	}
	fmt.Fprintf(os.Stderr, "source=%s provider=%s\n", out.Source, out.Provider)

	if strings.TrimSpace(*outPath) == "" {
		fmt.Println(string(payload))
		return
	}
	if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
		exitErr(fmt.Sprintf("write output: %v", err))
	}
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
