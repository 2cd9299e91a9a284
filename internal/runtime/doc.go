// Package runtime implements the augmentation pipeline: search space
// resolution, evaluation of directive functions, materialization of their
// verdicts and the driver that runs every registered directive once per
// ontology.
package runtime
