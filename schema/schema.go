// Package schema has the models and enums shared by every part of corrgraph.
package schema
