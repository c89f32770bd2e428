// Package vm simulates the memory collaborator of the kernel: user address
// spaces carved out of a fixed page budget and a pool of kernel stacks.
//
// Address spaces are bookkeeping only. They record their size and the pages
// charged against the budget; nothing is actually mapped.
package vm
