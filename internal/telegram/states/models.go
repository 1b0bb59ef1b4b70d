package states

type State string

const (
	StateNone State = "none"
)

// ubo -> user buy order
// ast -> admin setting
// abc -> admin broadcast
// amu -> admin message user

// user buy order states
const (
	UserBuyOrderWaitProduct State = "ubo_wt_product"
	UserBuyOrderWaitProof   State = "ubo_wt_proof"
)

// admin setting states
const (
	AdminSettingWaitValue State = "ast_wt_value"
)

// admin broadcast states
const (
	AdminBroadcastWaitMessage State = "abc_wt_message"
)

// admin message user states
const (
	AdminMessageUserWaitMessage State = "amu_wt_message"
)
