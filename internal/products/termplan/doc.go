// Package termplan is the compiled reference product: a level term plan with
// an accidental death rider. Its generator produces in-range positive cases
// and out-of-range negative cases for every configured epic; it encodes no
// real underwriting rules.
package termplan
