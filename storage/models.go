package storage

import "time"

// User is a stable participant identity. Only ID is used by the reputation
// engine; the rest is display data for the API layer.
type User struct {
	ID        int       `dynamodbav:"PK"`
	Name      string    `dynamodbav:"Name"`
	Email     string    `dynamodbav:"Email"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}

// Lobby is a container around an external contest. It has one leader and
// exactly one team.
type Lobby struct {
	ID          int        `dynamodbav:"PK"`
	Title       string     `dynamodbav:"Title"`
	ContestLink string     `dynamodbav:"ContestLink"`
	LeaderID    int        `dynamodbav:"LeaderID"`
	Finished    bool       `dynamodbav:"Finished"`
	FinishedAt  *time.Time `dynamodbav:"FinishedAt"`
	CreatedAt   time.Time  `dynamodbav:"CreatedAt"`
}

// Team is the membership set for a lobby.
type Team struct {
	ID        int       `dynamodbav:"PK"`
	LobbyID   int       `dynamodbav:"LobbyID"`
	Locked    bool      `dynamodbav:"Locked"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}

// TeamMember links a user to a team.
type TeamMember struct {
	TeamID int `dynamodbav:"TeamID"`
	UserID int `dynamodbav:"UserID"`
}

// Submission is a team's proof-of-work link for a finished contest.
type Submission struct {
	ID          string    `dynamodbav:"PK"`
	TeamID      int       `dynamodbav:"TeamID"`
	SubmitterID int       `dynamodbav:"SubmitterID"`
	ProofLink   string    `dynamodbav:"ProofLink"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
}

// Rating is one rater's opinion of one teammate, scoped to a team.
// Immutable once written: a rewrite is modeled by the collaborator as
// delete-then-insert, never as a mutation of this row.
type Rating struct {
	ID             string    `dynamodbav:"PK"`
	TeamID         int       `dynamodbav:"TeamID"`
	RaterID        int       `dynamodbav:"RaterID"`
	TargetID       int       `dynamodbav:"TargetID"`
	Contribution   *int      `dynamodbav:"Contribution"`
	Communication  *int      `dynamodbav:"Communication"`
	WouldWorkAgain bool      `dynamodbav:"WouldWorkAgain"`
	Comment        string    `dynamodbav:"Comment"`
	CreatedAt      time.Time `dynamodbav:"CreatedAt"`
}

// JoinRequest is a user's request to join a team.
type JoinRequest struct {
	ID          string    `dynamodbav:"PK"`
	LobbyID     int       `dynamodbav:"LobbyID"`
	TeamID      int       `dynamodbav:"TeamID"`
	RequesterID int       `dynamodbav:"RequesterID"`
	Status      string    `dynamodbav:"Status"` // "pending", "accepted", "declined"
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
}

// Invitation is a leader's invitation of a user into their team.
type Invitation struct {
	ID       string `dynamodbav:"PK"`
	TeamID   int    `dynamodbav:"TeamID"`
	TargetID int    `dynamodbav:"TargetID"`
	Token    string `dynamodbav:"Token"`
	Status   string `dynamodbav:"Status"` // "pending", "accepted", "declined"
}
