package common

// ActionPrefix namespaces host message actions, e.g. "ezrevenue_getCustomerInfo".
const ActionPrefix = "ezrevenue_"

// ProjectIDHeaderName is the token header field carrying the project id.
const ProjectIDHeaderName = "project_id"

// CustomerInfoMethod is the RPC method returning the entitlement record.
const CustomerInfoMethod = "customer.info"
