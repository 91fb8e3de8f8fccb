// Package shell turns an input line into executable commands.
//
// The stages loosely follow
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
//
//  1. The line is broken into tokens: words and operators, see Tokenize.
//  2. The token list is split into segments at ;, && and ||, see SplitChain.
//  3. Each segment is expanded just before it runs, replacing whole-word
//     $? and $NAME tokens, see Expand.
//  4. Redirections are peeled off and an optional single pipe splits the
//     segment in two, see Compile.
//
// There are no compound commands, globbing or here-documents.
package shell
