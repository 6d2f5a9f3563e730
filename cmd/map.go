// =============================================================================
// MailPrep - Map Command
// =============================================================================
//
// This file defines the 'map' command, which builds the mapping file of a
// mailing job from its list files.
//
// COMMAND USAGE:
//   mailprep map [files...] [flags]
//
// FLAGS:
//   --dir      : Also map every list file in this directory
//   --job      : The job name used in the output file name
//   --out      : Path of the mapping file (overrides the name format)
//   --dry-run  : Print the mapping instead of writing it
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Collect input files from the arguments and --dir
//   3. Read every header row concurrently
//   4. Classify each file's headers into merge fields
//   5. Merge into the existing mapping file, if any
//   6. Write the mapping file
//
// =============================================================================

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jepaynedev/mailprep/internal/config"
	"github.com/jepaynedev/mailprep/internal/headers"
	"github.com/jepaynedev/mailprep/internal/logging"
	"github.com/jepaynedev/mailprep/internal/merge"
	"github.com/jepaynedev/mailprep/internal/types"
	"github.com/jepaynedev/mailprep/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	mapDir    string
	mapJob    string
	mapOutput string
	mapDryRun bool
)

// defaultJobName is used when neither --job nor --dir names the job.
const defaultJobName = "mailprep"

// =============================================================================
// MAP COMMAND DEFINITION
// =============================================================================

var mapCmd = &cobra.Command{
	Use:   "map [files...]",
	Short: "Build the mapping file for a set of mailing lists",
	Long: `The map command reads the header row of each list file, classifies the
headers into merge fields and writes one INI section per file.

When the mapping file already exists, sections for the given files are
replaced and all other sections are kept. An existing file that cannot be
parsed is replaced.

A file that cannot be read does not stop the others from being mapped, but
the command exits with an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMap(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVar(&mapDir, "dir", "", "Map every list file in this directory")
	mapCmd.Flags().StringVar(&mapJob, "job", "", "Job name used in the output file name")
	mapCmd.Flags().StringVarP(&mapOutput, "out", "o", "", "Path of the mapping file")
	mapCmd.Flags().BoolVar(&mapDryRun, "dry-run", false, "Print the mapping instead of writing it")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runMap(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: COLLECT INPUT FILES
	// =========================================================================

	files := append([]string{}, args...)
	if mapDir != "" {
		discovered, err := utils.DiscoverInputFiles(mapDir, cfg.InputExtensions)
		if err != nil {
			return err
		}
		log.Debug("Discovered %d file(s) in %s", len(discovered), mapDir)
		files = append(files, discovered...)
	}
	if len(files) == 0 {
		return errors.New("no input files: pass list files or --dir")
	}

	outputPath := mapOutputPath(cfg, time.Now())
	log.Info("Mapping %d file(s) into %s", len(files), outputPath)

	// =========================================================================
	// STEP 2: READ HEADERS
	// =========================================================================

	results := readAllHeaders(files, headers.FromConfig(cfg), log)

	update := merge.NewStore()
	sources := make(map[string]string)
	var failed int
	for _, result := range results {
		if result.err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(result.path), result.err)
			continue
		}

		// Sections are keyed by base name, so a second file with the same
		// name would replace the first one's section.
		if previous, ok := sources[result.input.Name]; ok {
			if samePath(previous, result.path) {
				log.Debug("Skipping %s, already mapped", result.path)
				continue
			}
			failed++
			fmt.Fprintf(out, "  ✗ %s: section already mapped from %s\n", result.input.Name, previous)
			continue
		}
		sources[result.input.Name] = result.path

		mapping := merge.CreateMapDictWith(merge.DefaultFieldMappers(), cfg.Blacklist, result.input.Headers)
		update.SetFileMappings(result.input.Name, mapping)
		fmt.Fprintf(out, "  ✓ %s (%d headers -> %d fields)\n", result.input.Name, len(result.input.Headers), mapping.Len())
	}

	// =========================================================================
	// STEP 3: MERGE AND WRITE
	// =========================================================================

	store := loadExistingMapping(outputPath, log)
	store.Merge(update)

	if mapDryRun {
		fmt.Fprintln(out)
		if _, err := store.WriteTo(out); err != nil {
			return fmt.Errorf("failed to print mapping: %w", err)
		}
	} else if update.Len() > 0 {
		var buf bytes.Buffer
		if _, err := store.WriteTo(&buf); err != nil {
			return fmt.Errorf("failed to serialize mapping: %w", err)
		}
		if err := utils.WriteFileAtomic(outputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write mapping: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d section(s) to %s\n", store.Len(), outputPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be mapped", failed, len(files))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// headerResult is the outcome of reading one input file.
type headerResult struct {
	path  string
	input *types.InputFile
	err   error
}

// readAllHeaders reads every file concurrently. Results keep the order of
// paths.
func readAllHeaders(paths []string, opts headers.Options, log logging.Logger) []headerResult {
	results := make([]headerResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			input, err := headers.Read(path, opts)
			if err == nil {
				log.Debug("Read %d header(s) from %s", len(input.Headers), path)
			}
			results[i] = headerResult{path: path, input: input, err: err}
		}(i, path)
	}
	wg.Wait()

	return results
}

// samePath reports whether two paths name the same file.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// mapOutputPath resolves the mapping file path from the flags.
func mapOutputPath(cfg *config.Config, now time.Time) string {
	if mapOutput != "" {
		return mapOutput
	}

	var dirJob string
	if mapDir != "" {
		if abs, err := filepath.Abs(mapDir); err == nil {
			dirJob = filepath.Base(abs)
		}
	}

	name := utils.GenerateOutputFileName(cfg.OutputNameFormat, utils.Coalesce(mapJob, dirJob, defaultJobName), now)
	if mapDir != "" {
		return filepath.Join(mapDir, name)
	}
	return name
}

// loadExistingMapping loads the current mapping file. A missing or invalid
// file yields an empty store.
func loadExistingMapping(path string, log logging.Logger) *merge.Store {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return merge.NewStore()
	}
	if err != nil {
		log.Warn("Ignoring existing mapping %s: %v", path, err)
		return merge.NewStore()
	}
	defer file.Close()

	return merge.LoadOrEmpty(file, log)
}
