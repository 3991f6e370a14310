package constants

import "time"

// Plan is a subscription tier.
type Plan string

// MoodTrend classifies the direction of recent moods.
type MoodTrend string

// NarratorMode selects how weekly summaries are generated.
type NarratorMode string

const (
	AppName             = "lifemap"
	DefaultKeyringUser  = "database-connection"
	NarratorKeyringUser = "narrator-api-key"
	DefaultConfigPath   = "~/.config/lifemap/lifemap.db"
	Version             = "v0.3.0"

	// DateFormat is the canonical local calendar-day format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the display format for time of day (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is the stored created_at/updated_at format. Fixed width,
	// always UTC, so text columns sort chronologically.
	TimestampFormat = "2006-01-02T15:04:05.000000Z"

	// Mood range
	MinMood = 1
	MaxMood = 5

	// Plans
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"

	// Mood trends
	TrendImproving        MoodTrend = "improving"
	TrendDeclining        MoodTrend = "declining"
	TrendStable           MoodTrend = "stable"
	TrendInsufficientData MoodTrend = "insufficient_data"

	// Mood descriptors used by the weekly summary
	MoodPositive    = "positive"
	MoodBalanced    = "balanced"
	MoodChallenging = "challenging"

	// Narrator modes
	NarratorProxy  NarratorMode = "proxy"
	NarratorOpenAI NarratorMode = "openai"
	NarratorOff    NarratorMode = "off"

	// Summary sources
	SummarySourceNarrator = "narrator"
	SummarySourceLocal    = "local"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lifemap-"
	BackupFileSuffix = ".db"

	// Proxy constants
	ProxyLockfileName   = "lifemap-proxy.lock"
	ProxySecretHeader   = "X-Lifemap-Secret"
	ProxyProcessPath    = "/api/process-input"
	ProxyHealthPath     = "/health"
	ProxyDefaultAddr    = "127.0.0.1:5000"
	ProxyRatePerMinute  = 30
	ProxyRateBurst      = 5
	ProxyShutdownPeriod = 5 * time.Second

	// Change feed
	EntriesChannel    = "journal_entries"
	FeedBufferSize    = 64
	FeedPingInterval  = 90 * time.Second
	ListenerMinReconn = 10 * time.Second
	ListenerMaxReconn = time.Minute

	// DaysPerWeek is the denominator for weekly habit progress
	DaysPerWeek = 7
)

// DefaultHabits is the checklist offered when creating an entry.
var DefaultHabits = []string{"Exercise", "Meditation", "Reading", "Healthy Eating", "Early Sleep", "Gratitude"}
