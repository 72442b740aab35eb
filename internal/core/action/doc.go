// Package action resolves action rolls against a position and effect
// level and names the consequences a narrator may pick from.
package action
