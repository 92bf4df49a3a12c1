// =============================================================================
// Lançamentos Consolidator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the process command:
//   - Input discovery (directories expand to the statements inside them)
//   - Output directory management
//   - Output file naming
//   - Processing summary log
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultInputPatterns are the files picked up when a directory is given.
var DefaultInputPatterns = []string{"*.txt", "*.pdf"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the process command.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string

	// InputPatterns are the glob patterns used to discover inputs in a
	// directory. Default: DefaultInputPatterns
	InputPatterns []string
}

// NewFileManager creates a new FileManager writing into outputDir.
func NewFileManager(outputDir string) *FileManager {
	patterns := make([]string, len(DefaultInputPatterns))
	copy(patterns, DefaultInputPatterns)
	return &FileManager{
		OutputDir:     outputDir,
		InputPatterns: patterns,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans dir for files matching the input patterns.
//
// RETURNS:
//   - The matching files, sorted.
//   - An error if a pattern is malformed.
func (fm *FileManager) DiscoverInputFiles(dir string) ([]string, error) {
	patterns := fm.InputPatterns
	if len(patterns) == 0 {
		patterns = DefaultInputPatterns
	}

	seen := make(map[string]bool)
	var result []string
	for _, pattern := range patterns {
		files, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan input directory: %w", err)
		}

		for _, file := range files {
			info, err := os.Stat(file)
			if err != nil || info.IsDir() || seen[file] {
				continue
			}
			seen[file] = true
			result = append(result, file)
		}
	}

	sort.Strings(result)
	return result, nil
}

// ExpandInputs replaces every directory in paths with the files discovered
// in it. "-" and plain files are kept as given, in order.
func (fm *FileManager) ExpandInputs(paths []string) ([]string, error) {
	var result []string
	for _, p := range paths {
		if p == "-" {
			result = append(result, p)
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", p, err)
		}
		if !info.IsDir() {
			result = append(result, p)
			continue
		}

		files, err := fm.DiscoverInputFiles(p)
		if err != nil {
			return nil, err
		}
		result = append(result, files...)
	}
	return result, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name, with placeholders.
//   - params: A map of placeholder values.
//   - ext: The extension to append when the name doesn't end with it.
//
// PLACEHOLDERS:
//
//	{uuid}      - A random UUID, unless params sets "uuid"
//	{timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//	{date}      - Current date (YYYYMMDD)
//	{time}      - Current time (HHMMSS)
//	{original}  - Set through params
//
// EXAMPLE:
//
//	format: "resumo_{original}_{timestamp}"
//	params: {"original": "extrato"}
//	ext:    ".csv"
//	output: "resumo_extrato_20261019_143022.csv"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"uuid":      uuid.New().String(),
		"timestamp": now.Format("20060102_150405"),
		"date":      now.Format("20060102"),
		"time":      now.Format("150405"),
	}
	for key, value := range params {
		replacements[key] = value
	}

	pairs := make([]string, 0, 2*len(replacements))
	for key, value := range replacements {
		pairs = append(pairs, "{"+key+"}", value)
	}
	result := strings.NewReplacer(pairs...).Replace(format)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// OriginalName returns the {original} placeholder value of an input path:
// the base name without extension, or "stdin" for "-".
func OriginalName(path string) string {
	if path == "-" || path == "" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	StartTime        time.Time
	EndTime          time.Time
	TotalFiles       int
	SuccessfulFiles  int
	FailedFiles      int
	TotalRows        int
	TotalEntries     int
	DegradedEntries  int
	ValidationIssues int
	ProcessedFiles   []ProcessedFileInfo
	FailedFilesList  []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	RunID       string
	Rows        int
	Entries     int
	GrandTotal  string
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a log file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Lançamentos Consolidator - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:        %d\n"+
		"  Successful:         %d\n"+
		"  Failed:             %d\n"+
		"  Total Rows:         %d\n"+
		"  Total Entries:      %d\n"+
		"  Degraded Entries:   %d\n"+
		"  Validation Issues:  %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.TotalEntries,
		summary.DegradedEntries,
		summary.ValidationIssues)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			if pf.OutputFile != "" {
				fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			}
			fmt.Fprintf(writer, "  Run ID:       %s\n", pf.RunID)
			fmt.Fprintf(writer, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Entries:      %d\n", pf.Entries)
			fmt.Fprintf(writer, "  TOTAL GERAL:  %s\n", pf.GrandTotal)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
