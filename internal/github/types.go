package github

// Branch is a branch name and the SHA of its head commit.
type Branch struct {
	Name string
	SHA  string
}

// BranchResponse is the relevant part of one entry of GET /repos/{owner}/{repo}/branches.
type BranchResponse struct {
	Name   string    `json:"name"`
	Commit CommitRef `json:"commit"`
}

// CommitRef holds a commit sha.
type CommitRef struct {
	SHA string `json:"sha"`
}

// CommitResponse is the relevant part of one entry of GET /repos/{owner}/{repo}/commits.
type CommitResponse struct {
	SHA string `json:"sha"`
}
