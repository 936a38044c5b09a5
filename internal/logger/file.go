package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/speckit/internal/models"
)

// FileLogger logs workflow and research events to files under a log directory.
// It creates a timestamped per-run log, one detailed log per executed phase,
// and maintains a latest.log symlink pointing to the most recent run.
type FileLogger struct {
	logDir    string
	runLog    *os.File
	runFile   string
	phasesDir string
	logLevel  string
	mu        sync.Mutex
}

// NewFileLoggerWithDirAndLevel creates a FileLogger writing into logDir.
// It creates the directory if needed, opens a timestamped run log file,
// and creates or updates the latest.log symlink.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	phasesDir := filepath.Join(logDir, "phases")
	if err := os.MkdirAll(phasesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create phases directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log; nanoseconds keep back-to-back runs apart
	now := time.Now()
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s-%09d.log", now.Format("20060102-150405"), now.Nanosecond()))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:    logDir,
		runLog:    file,
		runFile:   runFile,
		phasesDir: phasesDir,
		logLevel:  normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== Speckit Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", now.Format(time.RFC3339)))

	return fl, nil
}

// RunFile returns the path of the current run log
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) { fl.logWithLevel("TRACE", message) }

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) { fl.logWithLevel("INFO", message) }

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) { fl.logWithLevel("WARN", message) }

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) { fl.logWithLevel("ERROR", message) }

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !shouldLog(fl.logLevel, strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// LogPhaseStart records the phase declaration in the run log.
func (fl *FileLogger) LogPhaseStart(def models.PhaseDefinition) {
	if !shouldLog(fl.logLevel, "info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Phase %s started (inputs: %s; outputs: %s)\n",
		time.Now().Format("15:04:05"), def.ID, strings.Join(def.Inputs, ", "), strings.Join(def.Outputs, ", ")))
}

// LogPhaseComplete writes a one-line verdict to the run log and the full
// report to phases/<phase>.log, replacing any previous run of that phase.
func (fl *FileLogger) LogPhaseComplete(report models.PhaseExecutionReport) {
	if shouldLog(fl.logLevel, "info") {
		fl.writeRunLog(fmt.Sprintf("[%s] Phase %s complete: %s\n",
			time.Now().Format("15:04:05"), report.Phase, report.Validation.OverallStatus))
	}

	if err := fl.writePhaseLog(report); err != nil {
		fl.logWithLevel("ERROR", err.Error())
	}
}

func (fl *FileLogger) writePhaseLog(report models.PhaseExecutionReport) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	path := filepath.Join(fl.phasesDir, fmt.Sprintf("%s.log", report.Phase))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create phase log file: %w", err)
	}
	defer file.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "=== Phase %s: %s ===\n", report.Phase, report.Results.PhaseName)
	fmt.Fprintf(&b, "Status: %s\n", report.Validation.OverallStatus)
	fmt.Fprintf(&b, "Inputs: %s\n", strings.Join(report.Results.InputsProcessed, ", "))
	fmt.Fprintf(&b, "Outputs: %s\n\n", strings.Join(report.Results.OutputsGenerated, ", "))

	b.WriteString("Criteria met:\n")
	for _, c := range report.Validation.CriteriaMet {
		fmt.Fprintf(&b, "  - %s\n", c)
	}
	if len(report.Validation.CriteriaFailed) > 0 {
		b.WriteString("Criteria failed:\n")
		for _, c := range report.Validation.CriteriaFailed {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	record, err := json.MarshalIndent(report.Results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode phase record: %w", err)
	}
	fmt.Fprintf(&b, "\nRecord (JSON):\n%s\n\n", record)
	fmt.Fprintf(&b, "Completed at: %s\n", report.CompletedAt.Format(time.RFC3339))

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write phase log: %w", err)
	}
	return nil
}

// LogResearchStart records the query in the run log.
func (fl *FileLogger) LogResearchStart(name string, query models.ResearchQuery) {
	if !shouldLog(fl.logLevel, "info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Research %s started (depth: %s, model: %s, focus: %s)\n",
		time.Now().Format("15:04:05"), name, query.Depth, query.Model, strings.Join(query.FocusAreas, ", ")))
}

// LogResearchComplete records the result size in the run log.
func (fl *FileLogger) LogResearchComplete(name string, result models.ResearchResult) {
	if !shouldLog(fl.logLevel, "info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Research %s complete (%d chars, %d sources, %d follow-ups)\n",
		time.Now().Format("15:04:05"), name, len(result.Response), len(result.Sources), len(result.FollowUpInsights)))
}

// LogPause records rate-limit pauses at DEBUG level.
func (fl *FileLogger) LogPause(completed, total int, pause time.Duration) {
	if !shouldLog(fl.logLevel, "debug") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [DEBUG] %d/%d queries done, pausing %s\n",
		time.Now().Format("15:04:05"), completed, total, formatDuration(pause)))
}

// LogSummary writes the pipeline summary to the run log.
func (fl *FileLogger) LogSummary(reports []models.PhaseExecutionReport) {
	if !shouldLog(fl.logLevel, "info") {
		return
	}
	var b strings.Builder
	b.WriteString("\n=== Workflow Summary ===\n")
	for _, r := range reports {
		fmt.Fprintf(&b, "%s: %s (%d met, %d failed)\n", r.Phase, r.Validation.OverallStatus,
			len(r.Validation.CriteriaMet), len(r.Validation.CriteriaFailed))
	}
	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}
	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
