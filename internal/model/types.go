package model

import "time"

// RiskLevel is the four-tier escalation scale shared by the silence
// classifier and the journal scanner. Severity strictly increases from
// GREEN to BLACK.
type RiskLevel string

const (
	RiskGreen  RiskLevel = "GREEN"
	RiskYellow RiskLevel = "YELLOW"
	RiskRed    RiskLevel = "RED"
	RiskBlack  RiskLevel = "BLACK"
)

// Severity returns the ordinal rank of a level. Unknown values rank below
// GREEN so a corrupted field can only ever be escalated.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskGreen:
		return 1
	case RiskYellow:
		return 2
	case RiskRed:
		return 3
	case RiskBlack:
		return 4
	default:
		return 0
	}
}

// Role distinguishes watched users from their guardians.
type Role string

const (
	RoleUser     Role = "USER"
	RoleGuardian Role = "GUARDIAN"
)

// Outcome is the result of a PIN submission.
type Outcome string

const (
	OutcomeGranted  Outcome = "GRANTED"
	OutcomeDisguise Outcome = "DISGUISE"
	OutcomeDuress   Outcome = "DURESS"
	OutcomeRejected Outcome = "REJECTED"
)

// Account is the sole aggregate. Journal and vault sequences live on the
// record itself so every mutation is a single-row read-modify-write.
type Account struct {
	AccountID     string  `json:"accountId"`
	Username      string  `json:"username"`
	Role          Role    `json:"role"`
	GuardianEmail string  `json:"guardianEmail,omitempty"`
	GuardianID    *string `json:"guardianId,omitempty"`

	// PIN material: argon2id digests over PINSalt. Never serialized to
	// API responses.
	NormalPINHash   []byte `json:"-"`
	DisguisePINHash []byte `json:"-"`
	DuressPINHash   []byte `json:"-"`
	PINSalt         []byte `json:"-"`

	LastActivityAt  time.Time `json:"lastActivityAt"`
	Silenced        bool      `json:"silenced"`
	GuardianAlerted bool      `json:"guardianAlerted"`
	RiskLevel       RiskLevel `json:"riskLevel"`

	JournalEntries []JournalEntry `json:"journalEntries,omitempty"`
	VaultItems     []VaultItem    `json:"vaultItems,omitempty"`

	// GUARDIAN accounts only: the users this guardian watches.
	ConnectedAccountIDs []string `json:"connectedAccountIds,omitempty"`

	CreationTime time.Time `json:"creationTime"`
}

// JournalEntry is an immutable scored journal record.
type JournalEntry struct {
	EntryID         string    `json:"entryId"`
	Text            string    `json:"text"`
	RiskScore       int       `json:"riskScore"`
	DetectedThreats []string  `json:"detectedThreats,omitempty"`
	CreationTime    time.Time `json:"creationTime"`
}

// VaultItem holds evidence metadata. Upload and steganography handling live
// outside this service; the record exists so a duress wipe has something
// concrete to destroy.
type VaultItem struct {
	ItemID        string    `json:"itemId"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	RealImageURL  string    `json:"realImageUrl,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreationTime  time.Time `json:"creationTime"`
}

// StatusReport is returned by the safety monitor.
type StatusReport struct {
	AccountID        string    `json:"accountId"`
	Username         string    `json:"username"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	MinutesSilent    int64     `json:"minutesSilent"`
	LastActivityAt   time.Time `json:"lastActivityAt"`
	Silenced         bool      `json:"silenced"`
	AlertJustSent    bool      `json:"alertJustSent"`
	DispatchDegraded bool      `json:"dispatchDegraded,omitempty"`
}

// AccountSummary is the guardian-facing view of a watched user.
type AccountSummary struct {
	AccountID      string    `json:"accountId"`
	Username       string    `json:"username"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}
