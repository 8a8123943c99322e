package core

import "fmt"

// Collection names.
const (
	UsersCollection        = "users"
	SettingsCollection     = "userSettings"
	BudgetsCollection      = "budgets"
	TransactionsCollection = "transactions"
	GoalsCollection        = "goals"
	TrophiesCollection     = "trophies"
	UserTrophiesCollection = "usersTrophies"
	ActivityCollection     = "userActivityLog"
)

// DefaultGoalStatus is stored when a goal is created without a status.
const DefaultGoalStatus = "In Progress"

var UserResource = ResourceSpec{
	Name:       "user",
	Collection: UsersCollection,
	KeyFields:  []string{"email"},
	Fields: []FieldRule{
		{Name: "email", Kind: KindString},
	},
	Timestamps: true,
	Immutable:  []string{"email"},
	OpenUpdate: true,
	NotFound: func(k Key) string {
		return fmt.Sprintf("User with email '%s' not found.", k.Display("email"))
	},
	Conflict: func(Key) string {
		return "A user with that email already exists."
	},
}

var BudgetResource = ResourceSpec{
	Name:       "budget",
	Collection: BudgetsCollection,
	KeyFields:  []string{"userId", "category"},
	Fields: []FieldRule{
		{Name: "userId", Kind: KindString},
		{Name: "category", Kind: KindString},
		{Name: "amount", Kind: KindNumber},
		{Name: "startDate", Kind: KindDate},
		{Name: "endDate", Kind: KindDate},
	},
	Timestamps: true,
	Immutable:  []string{"userId"},
	OpenUpdate: true,
	NotFound: func(k Key) string {
		return fmt.Sprintf("No budget found for category %q", k.Display("category"))
	},
	Conflict: func(k Key) string {
		return fmt.Sprintf("A budget with category %q already exists for this user.", k.Display("category"))
	},
}

var TransactionResource = ResourceSpec{
	Name:       "transaction",
	Collection: TransactionsCollection,
	KeyFields:  []string{"userId", "category", "transactionDate"},
	Fields: []FieldRule{
		{Name: "userId", Kind: KindString},
		{Name: "category", Kind: KindString},
		{Name: "amount", Kind: KindNumber},
		{Name: "transactionDate", Kind: KindDate},
	},
	Timestamps: true,
	Immutable:  []string{"userId"},
	OpenUpdate: true,
	NotFound: func(k Key) string {
		return fmt.Sprintf("No transaction found for category %q on date %q", k.Display("category"), k.Display("transactionDate"))
	},
	Conflict: func(k Key) string {
		return fmt.Sprintf("A transaction already exists for category %q on date %q", k.Display("category"), k.Display("transactionDate"))
	},
	UpdateConflict: func(k Key) string {
		return fmt.Sprintf("A transaction already exists with category %q on date %q", k.Display("category"), k.Display("transactionDate"))
	},
}

var GoalResource = ResourceSpec{
	Name:       "goal",
	Collection: GoalsCollection,
	KeyFields:  []string{"userId", "goalName"},
	Fields: []FieldRule{
		{Name: "userId", Kind: KindString},
		{Name: "goalName", Kind: KindString},
		{Name: "targetAmount", Kind: KindNumber},
		{Name: "currentAmount", Kind: KindNumber, Default: float64(0)},
		{Name: "targetDate", Kind: KindDate},
		{Name: "status", Kind: KindString, Default: DefaultGoalStatus},
	},
	Timestamps: true,
	Immutable:  []string{"userId"},
	OpenUpdate: true,
	NotFound: func(k Key) string {
		return fmt.Sprintf("No goal found named %q.", k.Display("goalName"))
	},
	Conflict: func(k Key) string {
		return fmt.Sprintf("A goal named %q already exists.", k.Display("goalName"))
	},
	UpdateConflict: func(k Key) string {
		return fmt.Sprintf("Goal %q already exists.", k.Display("goalName"))
	},
}

var TrophyResource = ResourceSpec{
	Name:       "trophy",
	Collection: TrophiesCollection,
	KeyFields:  []string{"trophyName"},
	Fields: []FieldRule{
		{Name: "trophyName", Kind: KindString},
		{Name: "displayName", Kind: KindString, DefaultFrom: "trophyName"},
		{Name: "description", Kind: KindString, Default: ""},
		{Name: "points", Kind: KindNumber, Default: float64(0)},
	},
	Timestamps: true,
	NotFound: func(k Key) string {
		return fmt.Sprintf("No trophy found with name %q.", k.Display("trophyName"))
	},
	Conflict: func(k Key) string {
		return fmt.Sprintf("Trophy %q already exists.", k.Display("trophyName"))
	},
	UpdateConflict: func(k Key) string {
		return fmt.Sprintf("A trophy named %q already exists.", k.Display("trophyName"))
	},
}

var UserTrophyResource = ResourceSpec{
	Name:       "user trophy",
	Collection: UserTrophiesCollection,
	KeyFields:  []string{"userId", "trophyName"},
	Fields: []FieldRule{
		{Name: "userId", Kind: KindString},
		{Name: "trophyName", Kind: KindString},
		{Name: "earnedAt", Kind: KindDate, DefaultNow: true},
	},
	Immutable: []string{"userId"},
	NotFound: func(k Key) string {
		return fmt.Sprintf("User does not have trophy %q.", k.Display("trophyName"))
	},
	Conflict: func(k Key) string {
		return fmt.Sprintf("User already has trophy %q.", k.Display("trophyName"))
	},
}

// ActivityResource locates the activity log for listing. Entries are written
// by the Recorder as they are.
var ActivityResource = ResourceSpec{
	Name:       "activity",
	Collection: ActivityCollection,
}
